package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Article is a normalized news record produced by any source.
type Article struct {
	Title          string
	Description    string
	URL            string
	Source         string
	PublishedAt    string
	RelevanceScore int
}

// WeekRange is the Monday..Friday trading week an outlook covers.
type WeekRange struct {
	Monday time.Time
	Friday time.Time
}

// WeekAhead returns the trading week starting on the next Monday relative to now.
// A Monday resolves to itself.
func WeekAhead(now time.Time) WeekRange {
	weekday := (int(now.Weekday()) + 6) % 7
	monday := now.AddDate(0, 0, (7-weekday)%7)
	return WeekRange{Monday: monday, Friday: monday.AddDate(0, 0, 4)}
}

// String renders the range as "October 19 - October 23, 2026".
func (w WeekRange) String() string {
	return w.Monday.Format("January 02") + " - " + w.Friday.Format("January 02, 2006")
}

// Outlook is the generated week-ahead narrative.
type Outlook struct {
	Text        string
	Week        WeekRange
	GeneratedAt time.Time
}

// CompletionRequest is a single prompt sent to a text-generation service.
type CompletionRequest struct {
	System    string
	Prompt    string
	MaxTokens int
	// Temperature is left to the provider default when zero.
	Temperature float64
}

// Truncate cuts s to at most limit characters.
func Truncate(s string, limit int) string {
	if limit < 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	var b strings.Builder
	for i, r := range []rune(s) {
		if i == limit {
			break
		}
		b.WriteRune(r)
	}
	return b.String()
}
