// Package whitelist manages a user's whitelist rules.
package whitelist

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"notifyhub/internal/model"
	"notifyhub/internal/repository"
	"notifyhub/internal/rules"
	"notifyhub/pkg/logger"
	"notifyhub/pkg/mq"
)

var ErrRuleNotFound = errors.New("whitelist rule not found")

type Service struct {
	store     RuleStore
	publisher Publisher
	logger    *zap.Logger
}

// NewService builds the service. publisher may be nil, in which case no
// change events are sent.
func NewService(store RuleStore, publisher Publisher, logger *zap.Logger) *Service {
	return &Service{store: store, publisher: publisher, logger: logger}
}

func (s *Service) List(ctx context.Context, userID int) ([]model.WhitelistRule, error) {
	list, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []model.WhitelistRule{}
	}
	return list, nil
}

// Upsert validates input and stores it for userID. A rule with the same
// source, type and value (case-insensitive) is updated in place; created
// reports whether a new rule was inserted.
func (s *Service) Upsert(ctx context.Context, userID int, input model.WhitelistRule) (*model.WhitelistRule, bool, error) {
	rule := input
	rule.UserID = userID
	if err := rules.Validate(&rule); err != nil {
		return nil, false, err
	}

	created, err := s.store.Upsert(ctx, &rule)
	if err != nil {
		return nil, false, err
	}

	action := "updated"
	if created {
		action = "created"
	}
	s.publish(ctx, userID, rule.ID, action)
	return &rule, created, nil
}

func (s *Service) Delete(ctx context.Context, userID int, ruleID string) error {
	id, err := uuid.Parse(ruleID)
	if err != nil {
		return ErrRuleNotFound
	}
	if err := s.store.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRuleNotFound
		}
		return err
	}
	s.publish(ctx, userID, ruleID, "deleted")
	return nil
}

// publish is best effort: the change is already stored.
func (s *Service) publish(ctx context.Context, userID int, ruleID, action string) {
	if s.publisher == nil {
		return
	}
	event := mq.WhitelistChangedEvent{UserID: userID, RuleID: ruleID, Action: action}
	if err := s.publisher.Publish(ctx, mq.RoutingKeyWhitelistChanged, event); err != nil {
		logger.WithTrace(ctx, s.logger).Warn("Failed to publish whitelist change",
			zap.Int("user_id", userID),
			zap.String("rule_id", ruleID),
			zap.Error(err),
		)
	}
}
