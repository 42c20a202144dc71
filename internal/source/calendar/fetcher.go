// Package calendar lists events from the user's primary calendar: the recent
// ones for the feed and the coming week for the calendar tab.
package calendar

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"notifyhub/internal/feed"
	"notifyhub/internal/model"
	"notifyhub/internal/session"
	"notifyhub/internal/source"
)

const (
	DefaultMaxResults  = 30
	UpcomingMaxResults = 15
	UpcomingHorizon    = 7 * 24 * time.Hour
	// 24 小时内开始的事件算紧急
	urgentWithin = 24 * time.Hour
)

type Fetcher struct {
	open     CalendarFactory
	max      int64
	upcoming bool
	logger   *zap.Logger
	now      func() time.Time
}

// New lists the events that started inside the feed window.
func New(open CalendarFactory, logger *zap.Logger) *Fetcher {
	return &Fetcher{open: open, max: DefaultMaxResults, logger: logger, now: time.Now}
}

// NewUpcoming lists the events starting within the next UpcomingHorizon and
// ignores the window it is given.
func NewUpcoming(open CalendarFactory, logger *zap.Logger) *Fetcher {
	return &Fetcher{open: open, max: UpcomingMaxResults, upcoming: true, logger: logger, now: time.Now}
}

func (f *Fetcher) Name() model.Source { return model.SourceCalendar }

func (f *Fetcher) Fetch(ctx context.Context, sess *session.Session, window feed.Window) ([]model.Item, error) {
	if !sess.GoogleLinked() {
		return nil, source.ErrNotLinked
	}

	cal, err := f.open(ctx, sess.Google)
	if err != nil {
		return nil, err
	}

	now := f.now()
	from, to := window.Start(now), now
	if f.upcoming {
		from, to = now, now.Add(UpcomingHorizon)
	}
	events, err := cal.Events(ctx, from, to, f.max)
	if err != nil {
		return nil, fmt.Errorf("list calendar events: %w", err)
	}

	items := make([]model.Item, 0, len(events))
	for _, ev := range events {
		if f.upcoming {
			items = append(items, upcomingItem(ev, now))
		} else {
			items = append(items, toItem(ev))
		}
	}
	return items, nil
}

// upcomingItem is urgent when the event starts within a day.
func upcomingItem(ev Event, now time.Time) model.Item {
	item := toItem(ev)
	start := item.Timestamp
	item.IsUrgent = !start.IsZero() && start.Before(now.Add(urgentWithin))
	if start.IsZero() {
		item.Summary = fmt.Sprintf("Upcoming event: %s", item.Title)
	} else {
		item.Summary = fmt.Sprintf("Upcoming event: %s at %s", item.Title, start.Format(time.Kitchen))
	}
	return item
}

func toItem(ev Event) model.Item {
	start := parseStart(ev.Start)

	title := ev.Summary
	if title == "" {
		title = "(No Event Title)"
	}
	summary := "Event at " + ev.Start
	if !start.IsZero() {
		summary = "Event at " + start.Format("Jan 2, 2006 3:04 PM")
	}
	if ev.Location != "" {
		summary += " - " + ev.Location
	}

	return model.Item{
		ID:          ev.ID,
		Source:      model.SourceCalendar,
		Title:       title,
		Summary:     summary,
		Timestamp:   start,
		IsImportant: true,
		Category:    "Event",
		Link:        ev.HTMLLink,
		Calendar: &model.CalendarDetails{
			Start:     start,
			Location:  ev.Location,
			EventType: ev.EventType,
		},
	}
}

// parseStart accepts an RFC 3339 dateTime or an all-day YYYY-MM-DD date.
func parseStart(s string) time.Time {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t
	}
	return time.Time{}
}
