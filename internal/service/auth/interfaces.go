package auth

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"golang.org/x/oauth2"

	"notifyhub/internal/model"
)

type UserStore interface {
	CreateUser(ctx context.Context, u *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}

type AccountStore interface {
	SetGoogleToken(ctx context.Context, userID int, tok *oauth2.Token) error
	SetGitHubToken(ctx context.Context, userID int, token string) error
}
