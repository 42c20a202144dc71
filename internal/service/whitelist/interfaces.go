package whitelist

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"github.com/google/uuid"

	"notifyhub/internal/model"
)

type RuleStore interface {
	ListByUser(ctx context.Context, userID int) ([]model.WhitelistRule, error)
	Upsert(ctx context.Context, rule *model.WhitelistRule) (bool, error)
	Delete(ctx context.Context, userID int, ruleID uuid.UUID) error
}

type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}
