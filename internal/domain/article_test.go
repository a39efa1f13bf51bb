package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWeekAhead(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("EST", -5*60*60)
	tests := []struct {
		name string
		now  time.Time
		want string
	}{
		{name: "sunday", now: time.Date(2026, time.October, 18, 9, 0, 0, 0, loc), want: "October 19 - October 23, 2026"},
		{name: "monday is current week", now: time.Date(2026, time.October, 19, 9, 0, 0, 0, loc), want: "October 19 - October 23, 2026"},
		{name: "wednesday", now: time.Date(2026, time.October, 21, 9, 0, 0, 0, loc), want: "October 26 - October 30, 2026"},
		{name: "crosses year", now: time.Date(2026, time.December, 31, 9, 0, 0, 0, loc), want: "January 04 - January 08, 2027"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			week := WeekAhead(tt.now)
			require.Equal(t, tt.want, week.String())
			require.Equal(t, time.Monday, week.Monday.Weekday())
			require.Equal(t, time.Friday, week.Friday.Weekday())
		})
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	require.Equal(t, "abc", Truncate("abcdef", 3))
	require.Equal(t, "abc", Truncate("abc", 10))
	require.Equal(t, "📈 m", Truncate("📈 market", 3))
	require.Equal(t, "", Truncate("abc", 0))
}
