package feed

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"notifyhub/internal/model"
)

func ids(items []model.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestWindow_Contains(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	w := Window{Days: 2}

	assert.True(t, w.Contains(now, now))
	assert.True(t, w.Contains(now, now.Add(-48*time.Hour)))
	assert.False(t, w.Contains(now, now.Add(-48*time.Hour-time.Second)))
	assert.False(t, w.Contains(now, now.Add(time.Second)))
	assert.False(t, w.Contains(now, time.Time{}))
}

func TestMerge_DropsItemsOutsideWindow(t *testing.T) {
	now := time.Now()
	w := Window{Days: 2}

	gmail := []model.Item{
		{ID: "fresh", IsImportant: true, Timestamp: now.Add(-time.Hour)},
		{ID: "stale", IsImportant: true, Timestamp: now.Add(-72 * time.Hour)},
	}
	github := []model.Item{
		{ID: "future", IsImportant: true, Timestamp: now.Add(time.Hour)},
		{ID: "unparsable", IsImportant: true},
	}

	got := Merge(now, w, gmail, github)

	assert.Equal(t, []string{"fresh"}, ids(got))
	for _, it := range got {
		assert.True(t, w.Contains(now, it.Timestamp), "item %s outside window", it.ID)
	}
}

func TestSort_UrgentBeforeNewer(t *testing.T) {
	now := time.Now()
	items := []model.Item{
		{ID: "B", IsImportant: true, Timestamp: now},
		{ID: "A", IsUrgent: true, Timestamp: now.Add(-30 * time.Hour)},
	}

	Sort(items)

	assert.Equal(t, []string{"A", "B"}, ids(items))
}

func TestSort_FullOrdering(t *testing.T) {
	now := time.Now()
	items := []model.Item{
		{ID: "plain-new", Timestamp: now},
		{ID: "important-old", IsImportant: true, Timestamp: now.Add(-10 * time.Hour)},
		{ID: "important-none", IsImportant: true},
		{ID: "urgent-important", IsUrgent: true, IsImportant: true, Timestamp: now.Add(-20 * time.Hour)},
		{ID: "important-new", IsImportant: true, Timestamp: now.Add(-time.Minute)},
		{ID: "urgent", IsUrgent: true, Timestamp: now.Add(-time.Minute)},
	}

	Sort(items)

	want := []string{
		"urgent-important",
		"urgent",
		"important-new",
		"important-old",
		"important-none",
		"plain-new",
	}
	if diff := cmp.Diff(want, ids(items)); diff != "" {
		t.Errorf("unexpected order (-want +got):\n%s", diff)
	}
}

func TestSort_StableForEqualKeys(t *testing.T) {
	ts := time.Now()
	items := []model.Item{
		{ID: "first", IsImportant: true, Timestamp: ts},
		{ID: "second", IsImportant: true, Timestamp: ts},
		{ID: "third", IsImportant: true, Timestamp: ts},
	}

	Sort(items)

	assert.Equal(t, []string{"first", "second", "third"}, ids(items))
}
