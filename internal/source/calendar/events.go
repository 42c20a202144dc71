package calendar

import (
	"context"
	"fmt"
	"net/http"
	"time"

	calendarapi "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// Event is the subset of a calendar event the fetcher uses. Start holds the
// raw dateTime, or the all-day date when dateTime is empty.
type Event struct {
	ID        string
	Summary   string
	Location  string
	HTMLLink  string
	EventType string
	Start     string
}

// Calendar is the slice of the Calendar API the fetcher uses.
type Calendar interface {
	Events(ctx context.Context, from, to time.Time, max int64) ([]Event, error)
}

type CalendarFactory func(ctx context.Context, client *http.Client) (Calendar, error)

// NewAPICalendar is the CalendarFactory backed by google.golang.org/api/calendar/v3.
func NewAPICalendar(ctx context.Context, client *http.Client) (Calendar, error) {
	svc, err := calendarapi.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}
	return &apiCalendar{svc: svc}, nil
}

type apiCalendar struct {
	svc *calendarapi.Service
}

func (c *apiCalendar) Events(ctx context.Context, from, to time.Time, max int64) ([]Event, error) {
	resp, err := c.svc.Events.List("primary").
		TimeMin(from.Format(time.RFC3339)).
		TimeMax(to.Format(time.RFC3339)).
		MaxResults(max).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}

	out := make([]Event, 0, len(resp.Items))
	for _, e := range resp.Items {
		ev := Event{
			ID:        e.Id,
			Summary:   e.Summary,
			Location:  e.Location,
			HTMLLink:  e.HtmlLink,
			EventType: e.EventType,
		}
		if e.Start != nil {
			ev.Start = e.Start.DateTime
			if ev.Start == "" {
				ev.Start = e.Start.Date
			}
		}
		out = append(out, ev)
	}
	return out, nil
}
