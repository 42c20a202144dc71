// Package source defines the contract shared by the upstream fetchers.
package source

//go:generate mockgen -source=source.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"errors"

	"notifyhub/internal/feed"
	"notifyhub/internal/model"
	"notifyhub/internal/session"
)

// ErrNotLinked is returned when the session lacks the credentials a fetcher needs.
var ErrNotLinked = errors.New("account not linked")

// Source fetches one upstream's items for the trailing window. Per-item
// failures are logged and skipped; an error means nothing could be listed.
type Source interface {
	Name() model.Source
	Fetch(ctx context.Context, sess *session.Session, window feed.Window) ([]model.Item, error)
}
