package feed

import (
	"slices"
	"time"

	"notifyhub/internal/model"
)

// Merge concatenates lists, drops every item outside the window and returns
// the result ranked by Sort. Inputs are not modified.
func Merge(now time.Time, window Window, lists ...[]model.Item) []model.Item {
	total := 0
	for _, l := range lists {
		total += len(l)
	}

	merged := make([]model.Item, 0, total)
	for _, l := range lists {
		for _, item := range l {
			if window.Contains(now, item.Timestamp) {
				merged = append(merged, item)
			}
		}
	}

	Sort(merged)
	return merged
}

// Sort orders items in place: urgent first, then important, then most recent.
// Items without a timestamp go last among otherwise equal items. The sort is stable.
func Sort(items []model.Item) {
	slices.SortStableFunc(items, compare)
}

func compare(a, b model.Item) int {
	if a.IsUrgent != b.IsUrgent {
		if a.IsUrgent {
			return -1
		}
		return 1
	}
	if a.IsImportant != b.IsImportant {
		if a.IsImportant {
			return -1
		}
		return 1
	}

	aZero, bZero := a.Timestamp.IsZero(), b.Timestamp.IsZero()
	switch {
	case aZero && bZero:
		return 0
	case aZero:
		return 1
	case bZero:
		return -1
	}
	return b.Timestamp.Compare(a.Timestamp)
}
