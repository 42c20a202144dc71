package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/oauth2"

	"notifyhub/internal/model"
	"notifyhub/pkg/otel"
)

// AccountRepository stores the upstream credentials linked to each user.
type AccountRepository struct {
	db *pgxpool.Pool
}

func NewAccountRepository(db *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{db: db}
}

// Get returns the user's linked accounts. A user with nothing linked gets an
// empty value, not an error.
func (r *AccountRepository) Get(ctx context.Context, userID int) (*model.LinkedAccounts, error) {
	query := `
        SELECT google_token, github_token
        FROM linked_accounts
        WHERE user_id = $1
    `
	var (
		rawGoogle []byte
		accounts  model.LinkedAccounts
	)
	err := otel.DB(ctx, "SELECT", "linked_accounts", func(ctx context.Context) error {
		return r.db.QueryRow(ctx, query, userID).Scan(&rawGoogle, &accounts.GitHubToken)
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return &accounts, nil
	}
	if err != nil {
		return nil, err
	}

	if len(rawGoogle) > 0 {
		var tok oauth2.Token
		if err := json.Unmarshal(rawGoogle, &tok); err != nil {
			return nil, fmt.Errorf("decode google token for user %d: %w", userID, err)
		}
		accounts.GoogleToken = &tok
	}
	return &accounts, nil
}

func (r *AccountRepository) SetGoogleToken(ctx context.Context, userID int, tok *oauth2.Token) error {
	raw, err := json.Marshal(tok)
	if err != nil {
		return err
	}
	query := `
        INSERT INTO linked_accounts (user_id, google_token, updated_at)
        VALUES ($1, $2, NOW())
        ON CONFLICT (user_id) DO UPDATE
        SET google_token = EXCLUDED.google_token, updated_at = NOW()
    `
	_, err = r.db.Exec(ctx, query, userID, raw)
	return err
}

func (r *AccountRepository) SetGitHubToken(ctx context.Context, userID int, token string) error {
	query := `
        INSERT INTO linked_accounts (user_id, github_token, updated_at)
        VALUES ($1, $2, NOW())
        ON CONFLICT (user_id) DO UPDATE
        SET github_token = EXCLUDED.github_token, updated_at = NOW()
    `
	_, err := r.db.Exec(ctx, query, userID, token)
	return err
}
