// Package session carries the per-request identity and upstream handles that
// fetchers need. A Session is built by the HTTP middleware for each request and
// is never shared between users.
package session

import (
	"context"
	"net/http"
)

type Session struct {
	UserID int
	// Google is an authorized client for the Gmail and Calendar APIs. Nil when
	// the user has not linked a Google account.
	Google *http.Client
	// GitHubToken is empty when the user has not linked GitHub.
	GitHubToken string
}

func (s *Session) GoogleLinked() bool {
	return s != nil && s.Google != nil
}

func (s *Session) GitHubLinked() bool {
	return s != nil && s.GitHubToken != ""
}

type ctxKey struct{}

func WithContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the session stored by WithContext, or nil.
func FromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(ctxKey{}).(*Session)
	return s
}
