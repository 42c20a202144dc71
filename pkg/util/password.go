package util

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

const (
	passwordCost      = 10
	MinPasswordLength = 8
)

var ErrPasswordTooShort = errors.New("password must be at least 8 characters")

// HashPassword turns a plaintext password into a bcrypt hash.
func HashPassword(password string) (string, error) {
	if len(password) < MinPasswordLength {
		return "", ErrPasswordTooShort
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword verifies a plaintext password against a bcrypt hash.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
