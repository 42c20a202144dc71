package session

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"notifyhub/internal/model"
)

// GoogleScopes are the read-only scopes the Gmail and Calendar fetchers need.
var GoogleScopes = []string{
	"https://www.googleapis.com/auth/gmail.readonly",
	"https://www.googleapis.com/auth/calendar.readonly",
}

type AccountStore interface {
	Get(ctx context.Context, userID int) (*model.LinkedAccounts, error)
}

// Builder assembles a Session from the user's linked accounts.
type Builder struct {
	accounts AccountStore
	oauth    *oauth2.Config
	timeout  time.Duration
}

// NewBuilder returns a Builder whose Google clients refresh tokens through
// the OAuth client identified by clientID and clientSecret.
func NewBuilder(accounts AccountStore, clientID, clientSecret string, timeout time.Duration) *Builder {
	return &Builder{
		accounts: accounts,
		oauth: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       GoogleScopes,
		},
		timeout: timeout,
	}
}

func (b *Builder) Build(ctx context.Context, userID int) (*Session, error) {
	accounts, err := b.accounts.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load linked accounts: %w", err)
	}

	sess := &Session{UserID: userID, GitHubToken: accounts.GitHubToken}
	if accounts.GoogleToken != nil {
		sess.Google = b.googleClient(accounts.GoogleToken)
	}
	return sess, nil
}

func (b *Builder) googleClient(tok *oauth2.Token) *http.Client {
	// 刷新令牌的请求不应随单个 HTTP 请求被取消
	client := b.oauth.Client(context.Background(), tok)
	client.Timeout = b.timeout
	return client
}
