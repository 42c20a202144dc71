package handler

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"golang.org/x/oauth2"

	"notifyhub/internal/model"
	"notifyhub/internal/session"
	"notifyhub/internal/source/github"
	"notifyhub/internal/source/gmail"
)

type Recommender interface {
	Recommend(ctx context.Context, sess *session.Session) ([]model.Item, error)
	SourceItems(ctx context.Context, sess *session.Session, tab string) ([]model.Item, error)
}

type GitHubTab interface {
	Build(ctx context.Context, sess *session.Session) (*github.TabView, error)
	PullRequest(ctx context.Context, sess *session.Session, owner, repo string, number int) (*github.PullRequestView, error)
}

type MailActions interface {
	MarkRead(ctx context.Context, sess *session.Session, id string) error
	Content(ctx context.Context, sess *session.Session, id string) (*gmail.Content, error)
}

type WhitelistManager interface {
	List(ctx context.Context, userID int) ([]model.WhitelistRule, error)
	Upsert(ctx context.Context, userID int, input model.WhitelistRule) (*model.WhitelistRule, bool, error)
	Delete(ctx context.Context, userID int, ruleID string) error
}

type Authenticator interface {
	Register(ctx context.Context, email, name, password string) (*model.User, error)
	Login(ctx context.Context, email, password string) (string, *model.User, error)
	LinkGoogle(ctx context.Context, userID int, tok *oauth2.Token) error
	LinkGitHub(ctx context.Context, userID int, token string) error
}
