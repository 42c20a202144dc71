package mqhandler

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"notifyhub/pkg/mq"
)

type fakeFeeds struct {
	invalidated []int
	err         error
}

func (f *fakeFeeds) Invalidate(_ context.Context, userID int) error {
	f.invalidated = append(f.invalidated, userID)
	return f.err
}

func payload(t *testing.T, e mq.WhitelistChangedEvent) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(e)
	require.NoError(t, err)
	return b
}

func TestHandleWhitelistChanged(t *testing.T) {
	ctx := context.Background()

	t.Run("invalidates the user's feed", func(t *testing.T) {
		feeds := &fakeFeeds{}
		h := NewWhitelistChangedHandler(feeds, zap.NewNop())

		err := h.HandleWhitelistChanged(ctx, payload(t, mq.WhitelistChangedEvent{UserID: 9, RuleID: "r1", Action: "deleted"}))
		require.NoError(t, err)
		assert.Equal(t, []int{9}, feeds.invalidated)
	})

	t.Run("cache failure is retried", func(t *testing.T) {
		feeds := &fakeFeeds{err: errors.New("redis down")}
		h := NewWhitelistChangedHandler(feeds, zap.NewNop())

		err := h.HandleWhitelistChanged(ctx, payload(t, mq.WhitelistChangedEvent{UserID: 9}))
		assert.Error(t, err)
	})

	t.Run("malformed payload is dropped", func(t *testing.T) {
		feeds := &fakeFeeds{}
		h := NewWhitelistChangedHandler(feeds, zap.NewNop())

		require.NoError(t, h.HandleWhitelistChanged(ctx, json.RawMessage(`{"user_id":`)))
		require.NoError(t, h.HandleWhitelistChanged(ctx, json.RawMessage(`{"rule_id":"r1"}`)))
		assert.Empty(t, feeds.invalidated)
	})
}
