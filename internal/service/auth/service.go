// Package auth registers users, checks their credentials and links upstream accounts.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/oauth2"

	"notifyhub/internal/model"
	"notifyhub/internal/repository"
	"notifyhub/pkg/util"
)

var (
	ErrUserExists         = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidInput       = errors.New("invalid input")
)

type Service struct {
	users     UserStore
	accounts  AccountStore
	jwtSecret string
}

func NewService(users UserStore, accounts AccountStore, jwtSecret string) *Service {
	return &Service{
		users:     users,
		accounts:  accounts,
		jwtSecret: jwtSecret,
	}
}

// Register creates a new user.
func (s *Service) Register(ctx context.Context, email, name, password string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: a valid email is required", ErrInvalidInput)
	}

	hash, err := util.HashPassword(password)
	if errors.Is(err, util.ErrPasswordTooShort) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err != nil {
		return nil, err
	}

	u := &model.User{
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: hash,
	}
	if err := s.users.CreateUser(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserExists
		}
		return nil, err
	}
	return u, nil
}

// Login checks user credentials and returns a signed JWT.
func (s *Service) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	u, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, repository.ErrNotFound) {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}

	if !util.CheckPassword(password, u.PasswordHash) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := util.GenerateJWT(u.ID, s.jwtSecret)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}

// LinkGoogle stores the user's Google OAuth token. The token must carry a
// refresh token so the session can renew access later.
func (s *Service) LinkGoogle(ctx context.Context, userID int, tok *oauth2.Token) error {
	if tok == nil || (tok.AccessToken == "" && tok.RefreshToken == "") {
		return fmt.Errorf("%w: google token is required", ErrInvalidInput)
	}
	return s.accounts.SetGoogleToken(ctx, userID, tok)
}

func (s *Service) LinkGitHub(ctx context.Context, userID int, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("%w: github token is required", ErrInvalidInput)
	}
	return s.accounts.SetGitHubToken(ctx, userID, token)
}
