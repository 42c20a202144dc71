package mqhandler

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"notifyhub/pkg/logger"
	"notifyhub/pkg/mq"
)

// FeedInvalidator drops a user's cached feed.
type FeedInvalidator interface {
	Invalidate(ctx context.Context, userID int) error
}

type WhitelistChangedHandler struct {
	feeds  FeedInvalidator
	logger *zap.Logger
}

func NewWhitelistChangedHandler(feeds FeedInvalidator, logger *zap.Logger) *WhitelistChangedHandler {
	return &WhitelistChangedHandler{feeds: feeds, logger: logger}
}

// HandleWhitelistChanged -- 规则变更后清除该用户的推荐缓存
func (h *WhitelistChangedHandler) HandleWhitelistChanged(ctx context.Context, raw json.RawMessage) error {
	log := logger.WithTrace(ctx, h.logger)

	var e mq.WhitelistChangedEvent
	if err := json.Unmarshal(raw, &e); err != nil {
		// 格式错误的消息重试也不会成功，直接丢弃
		log.Error("Failed to unmarshal whitelist changed event", zap.Error(err))
		return nil
	}
	if e.UserID <= 0 {
		log.Warn("Whitelist changed event without user, dropping", zap.String("rule_id", e.RuleID))
		return nil
	}

	if err := h.feeds.Invalidate(ctx, e.UserID); err != nil {
		log.Error("Failed to invalidate feed cache",
			zap.Int("user_id", e.UserID),
			zap.Error(err),
		)
		return err
	}

	log.Info("Feed cache invalidated",
		zap.Int("user_id", e.UserID),
		zap.String("rule_id", e.RuleID),
		zap.String("action", e.Action),
	)
	return nil
}
