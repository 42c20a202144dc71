package cache

import (
	"context"
	"fmt"
	"time"

	"notifyhub/internal/model"
)

// FeedCache stores the ranked recommendation feed per user.
type FeedCache struct {
	store *Store
	ttl   time.Duration
}

func NewFeedCache(store *Store, ttl time.Duration) *FeedCache {
	return &FeedCache{store: store, ttl: ttl}
}

func feedKey(userID int) string {
	return fmt.Sprintf("feed:%d", userID)
}

func (c *FeedCache) Get(ctx context.Context, userID int) (model.FeedSnapshot, bool, error) {
	var snap model.FeedSnapshot
	ok, err := c.store.Get(ctx, feedKey(userID), &snap)
	if err != nil || !ok {
		return model.FeedSnapshot{}, false, err
	}
	return snap, true, nil
}

func (c *FeedCache) Set(ctx context.Context, userID int, snap model.FeedSnapshot) error {
	if c.ttl <= 0 {
		return nil
	}
	return c.store.Set(ctx, feedKey(userID), snap, c.ttl)
}

// Invalidate drops the user's cached feed, e.g. after a whitelist change.
func (c *FeedCache) Invalidate(ctx context.Context, userID int) error {
	return c.store.Delete(ctx, feedKey(userID))
}
