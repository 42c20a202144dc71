package model

import (
	"strings"
	"time"
)

// Source identifies the upstream an item came from.
type Source string

const (
	SourceGmail    Source = "Gmail"
	SourceGitHub   Source = "GitHub"
	SourceCalendar Source = "Calendar"
)

// Sources lists every supported upstream in fan-out order.
var Sources = []Source{SourceGmail, SourceGitHub, SourceCalendar}

// ParseSource matches s case-insensitively against the known sources.
func ParseSource(s string) (Source, bool) {
	for _, src := range Sources {
		if strings.EqualFold(string(src), s) {
			return src, true
		}
	}
	return "", false
}

// Item is the source-agnostic shape every fetcher produces. Exactly one of
// Gmail, GitHub or Calendar is set, matching Source.
//
// A zero Timestamp means the upstream time could not be parsed.
type Item struct {
	ID          string    `json:"id"`
	Source      Source    `json:"source"`
	Title       string    `json:"title"`
	Summary     string    `json:"summary"`
	From        string    `json:"from,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
	IsUrgent    bool      `json:"isUrgent"`
	IsImportant bool      `json:"isImportant"`
	Category    string    `json:"category"`
	Link        string    `json:"link"`

	Gmail    *GmailDetails    `json:"gmail,omitempty"`
	GitHub   *GitHubDetails   `json:"github,omitempty"`
	Calendar *CalendarDetails `json:"calendar,omitempty"`
}

type GmailDetails struct {
	Subject string `json:"subject"`
	Snippet string `json:"snippet"`
	Date    string `json:"date,omitempty"`
	// Origin is the classifier's channel label: Gmail, JobPortal, SocialMedia or Newsletter.
	Origin string `json:"origin,omitempty"`
}

type GitHubDetails struct {
	Repository  string `json:"repository"`
	SubjectType string `json:"subjectType"`
	Reason      string `json:"reason"`
}

type CalendarDetails struct {
	Start     time.Time `json:"start"`
	Location  string    `json:"location,omitempty"`
	EventType string    `json:"eventType,omitempty"`
}

// Body returns the text a "body" rule matches against.
func (i *Item) Body() string {
	if i.Gmail != nil && i.Gmail.Snippet != "" {
		return i.Gmail.Snippet
	}
	return i.Summary
}

// FeedSnapshot is a cached feed together with the fingerprint of the rule set
// it was built with.
type FeedSnapshot struct {
	Rules string `json:"rules"`
	Items []Item `json:"items"`
}
