package recommendation

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"notifyhub/internal/model"
)

type RuleStore interface {
	ListByUser(ctx context.Context, userID int) ([]model.WhitelistRule, error)
}

// FeedCache keeps one snapshot per user. Recommend only serves a snapshot
// whose rule fingerprint matches the rules it just loaded.
type FeedCache interface {
	Get(ctx context.Context, userID int) (model.FeedSnapshot, bool, error)
	Set(ctx context.Context, userID int, snap model.FeedSnapshot) error
}
