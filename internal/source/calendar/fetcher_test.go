package calendar

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"notifyhub/internal/feed"
	"notifyhub/internal/session"
	"notifyhub/internal/source"
)

type fakeCalendar struct {
	events   []Event
	err      error
	from, to time.Time
	max      int64
}

func (c *fakeCalendar) Events(ctx context.Context, from, to time.Time, max int64) ([]Event, error) {
	c.from, c.to, c.max = from, to, max
	return c.events, c.err
}

func newFetcher(cal Calendar, now time.Time) *Fetcher {
	f := New(func(context.Context, *http.Client) (Calendar, error) { return cal, nil }, zap.NewNop())
	f.now = func() time.Time { return now }
	return f
}

func TestFetch_MapsEvents(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	cal := &fakeCalendar{events: []Event{
		{ID: "e1", Summary: "Standup", Location: "Room 4", Start: "2026-03-10T09:00:00Z", EventType: "default", HTMLLink: "https://calendar.google.com/e1"},
		{ID: "e2", Start: "2026-03-09"},
		{ID: "e3", Summary: "Broken", Start: "whenever"},
	}}

	items, err := newFetcher(cal, now).Fetch(context.Background(), &session.Session{UserID: 1, Google: http.DefaultClient}, feed.Window{Days: 2})
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, now.Add(-48*time.Hour), cal.from)
	assert.Equal(t, now, cal.to)
	assert.Equal(t, int64(30), cal.max)

	assert.Equal(t, "Standup", items[0].Title)
	assert.Equal(t, "Event at Mar 10, 2026 9:00 AM - Room 4", items[0].Summary)
	assert.True(t, items[0].IsImportant)
	assert.Equal(t, "https://calendar.google.com/e1", items[0].Link)

	assert.Equal(t, "(No Event Title)", items[1].Title)
	assert.Equal(t, time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), items[1].Timestamp)

	assert.True(t, items[2].Timestamp.IsZero())
}

func TestFetch_Errors(t *testing.T) {
	f := newFetcher(&fakeCalendar{err: errors.New("boom")}, time.Now())

	_, err := f.Fetch(context.Background(), &session.Session{Google: http.DefaultClient}, feed.Window{Days: 2})
	assert.Error(t, err)

	_, err = f.Fetch(context.Background(), &session.Session{}, feed.Window{Days: 2})
	assert.ErrorIs(t, err, source.ErrNotLinked)
}

func TestUpcoming_NextWeek(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	cal := &fakeCalendar{events: []Event{
		{ID: "soon", Summary: "Dentist", Start: "2026-03-11T09:30:00Z"},
		{ID: "later", Summary: "Offsite", Start: "2026-03-14"},
		{ID: "odd", Summary: "TBD", Start: "someday"},
	}}
	f := NewUpcoming(func(context.Context, *http.Client) (Calendar, error) { return cal, nil }, zap.NewNop())
	f.now = func() time.Time { return now }

	items, err := f.Fetch(context.Background(), &session.Session{UserID: 1, Google: http.DefaultClient}, feed.Window{Days: 2})
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, now, cal.from)
	assert.Equal(t, now.Add(7*24*time.Hour), cal.to)
	assert.Equal(t, int64(15), cal.max)

	assert.True(t, items[0].IsUrgent)
	assert.True(t, items[0].IsImportant)
	assert.Equal(t, "Upcoming event: Dentist at 9:30AM", items[0].Summary)

	assert.False(t, items[1].IsUrgent)
	assert.Equal(t, "Upcoming event: Offsite at 12:00AM", items[1].Summary)

	assert.False(t, items[2].IsUrgent)
	assert.Equal(t, "Upcoming event: TBD", items[2].Summary)
}
