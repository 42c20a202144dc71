package model

import (
	"time"

	"golang.org/x/oauth2"
)

type User struct {
	ID           int
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
}

// LinkedAccounts holds the upstream credentials a user has connected.
// A nil GoogleToken or empty GitHubToken means that account is not linked.
type LinkedAccounts struct {
	GoogleToken *oauth2.Token
	GitHubToken string
}
