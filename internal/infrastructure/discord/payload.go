package discord

import (
	"fmt"
	"strings"
	"time"

	"github.com/Johnnenna2/weekly-news/internal/domain"
)

const (
	// SectionLimit is the per-field character budget for outlook chunks.
	SectionLimit = 1000
	// FallbackLimit caps the outlook text in the plain-text retry.
	FallbackLimit = 1800

	storyCount      = 8
	storyTitleLimit = 70
	errorLimit      = 200

	colorOutlook   = 0x9932cc
	colorStories   = 0x0066cc
	colorNoStories = 0x999999
	colorChecklist = 0xff6600

	errorUsername = "Weekly Outlook Bot - ERROR"

	announcement    = "📈 **Weekly Market Outlook is here!** Plan your trading week:"
	outlookTitle    = "📅 Weekly Trading Outlook"
	outlookField    = "📊 Weekly Market Outlook"
	continuedField  = "\u200b"
	outlookFooter   = "Weekly market analysis • Plan your trading week • Not financial advice"
	storiesTitle    = "📰 Key Stories Shaping the Week"
	noStoriesTitle  = "📰 Key Stories"
	noStoriesText   = "Monitor major financial news sources for developing stories."
	checklistTitle  = "📋 Week Ahead Checklist"
	checklistText   = "**Monday:** Review weekend news, set weekly levels\n**Tuesday-Thursday:** Monitor earnings, economic data\n**Friday:** Weekly close, next week preparation\n\n**Market Hours:** 9:30 AM - 4:00 PM EST"
	generatedLayout = "Monday, January 02, 2006 - 03:04 PM MST"
)

// Payload is the webhook execute body.
type Payload struct {
	Content   string  `json:"content"`
	Embeds    []Embed `json:"embeds,omitempty"`
	Username  string  `json:"username,omitempty"`
	AvatarURL string  `json:"avatar_url,omitempty"`
}

// Embed is one display section of a message.
type Embed struct {
	Title       string  `json:"title,omitempty"`
	Description string  `json:"description,omitempty"`
	Color       int     `json:"color,omitempty"`
	Fields      []Field `json:"fields,omitempty"`
	Footer      *Footer `json:"footer,omitempty"`
	Timestamp   string  `json:"timestamp,omitempty"`
}

// Field holds one outlook chunk.
type Field struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

// Footer is the small print under an embed.
type Footer struct {
	Text string `json:"text"`
}

// BuildOutlookPayload renders the outlook, the key stories and the weekly
// checklist as three embeds.
func BuildOutlookPayload(outlook domain.Outlook, articles []domain.Article, username, avatarURL string) Payload {
	chunks := SplitOutlook(outlook.Text, SectionLimit)
	fields := make([]Field, 0, len(chunks))
	for i, chunk := range chunks {
		name := continuedField
		if i == 0 {
			name = outlookField
		}
		fields = append(fields, Field{Name: name, Value: chunk})
	}

	overview := Embed{
		Title:       outlookTitle,
		Description: fmt.Sprintf("**Week of %s**\n*%s*", outlook.Week, outlook.GeneratedAt.Format(generatedLayout)),
		Color:       colorOutlook,
		Fields:      fields,
		Footer:      &Footer{Text: outlookFooter},
		Timestamp:   outlook.GeneratedAt.Format(time.RFC3339),
	}

	checklist := Embed{
		Title:       checklistTitle,
		Description: checklistText,
		Color:       colorChecklist,
	}

	return Payload{
		Content:   announcement,
		Embeds:    []Embed{overview, storiesEmbed(articles), checklist},
		Username:  username,
		AvatarURL: avatarURL,
	}
}

func storiesEmbed(articles []domain.Article) Embed {
	if len(articles) == 0 {
		return Embed{Title: noStoriesTitle, Description: noStoriesText, Color: colorNoStories}
	}

	if len(articles) > storyCount {
		articles = articles[:storyCount]
	}
	lines := make([]string, 0, len(articles))
	for _, a := range articles {
		lines = append(lines, fmt.Sprintf("• [%s...](%s)", domain.Truncate(a.Title, storyTitleLimit), a.URL))
	}
	return Embed{Title: storiesTitle, Description: strings.Join(lines, "\n"), Color: colorStories}
}

// BuildFallbackPayload is the plain-text message sent after the rich one is rejected.
func BuildFallbackPayload(outlook domain.Outlook, username string) Payload {
	return Payload{
		Content:  fmt.Sprintf("📅 **Weekly Market Outlook - %s**\n\n%s", outlook.Week, domain.Truncate(outlook.Text, FallbackLimit)),
		Username: username,
	}
}

// BuildErrorPayload reports a failed run.
func BuildErrorPayload(message string) Payload {
	return Payload{
		Content:  "❌ **Error in weekly outlook bot:** " + domain.Truncate(message, errorLimit),
		Username: errorUsername,
	}
}

// sanitized returns a copy with NUL characters removed from every string.
func (p Payload) sanitized() Payload {
	clean := func(s string) string { return strings.ReplaceAll(s, "\x00", "") }

	out := Payload{
		Content:   clean(p.Content),
		Username:  clean(p.Username),
		AvatarURL: clean(p.AvatarURL),
	}
	if len(p.Embeds) == 0 {
		return out
	}

	out.Embeds = make([]Embed, len(p.Embeds))
	for i, e := range p.Embeds {
		e.Title = clean(e.Title)
		e.Description = clean(e.Description)
		e.Timestamp = clean(e.Timestamp)
		if e.Footer != nil {
			e.Footer = &Footer{Text: clean(e.Footer.Text)}
		}
		if len(e.Fields) > 0 {
			fields := make([]Field, len(e.Fields))
			for j, f := range e.Fields {
				fields[j] = Field{Name: clean(f.Name), Value: clean(f.Value), Inline: f.Inline}
			}
			e.Fields = fields
		}
		out.Embeds[i] = e
	}
	return out
}
