package models

import "time"

// Display defaults for optional article fields.
const (
	UnknownPublisher = "Unknown"
	UnknownPublished = "Unknown"
	NoTitle          = "No title"
	NoLink           = "#"
)

// PublishedLayout is the layout used to render publish times.
const PublishedLayout = "2006-01-02 15:04:05"

// NewsArticle is one raw news item for a ticker, as returned by a news
// provider after defaults have been resolved. It is not modified after fetch.
type NewsArticle struct {
	Title       string     `json:"title"`
	Link        string     `json:"link"`
	Publisher   string     `json:"publisher"`
	Summary     string     `json:"summary,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"` // nil when the provider omitted it
}

// DisplayTitle returns the title, or "No title" when the provider sent none.
func (a NewsArticle) DisplayTitle() string {
	if a.Title == "" {
		return NoTitle
	}
	return a.Title
}

// DisplayLink returns the link, or "#" when there is none.
func (a NewsArticle) DisplayLink() string {
	if a.Link == "" {
		return NoLink
	}
	return a.Link
}

// HeadlineText is the text scored for headline sentiment: title and summary
// joined by a single space.
func (a NewsArticle) HeadlineText() string {
	return a.Title + " " + a.Summary
}

// Published renders the publish time in local time, or "Unknown".
func (a NewsArticle) Published() string {
	if a.PublishedAt == nil {
		return UnknownPublished
	}
	return a.PublishedAt.Local().Format(PublishedLayout)
}
