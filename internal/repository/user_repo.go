package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"notifyhub/internal/model"
)

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser inserts a new user and fills in ID and CreatedAt.
func (r *UserRepository) CreateUser(ctx context.Context, u *model.User) error {
	query := `
        INSERT INTO users (email, name, password_hash, created_at)
        VALUES ($1, $2, $3, NOW())
        RETURNING id, created_at
    `
	err := r.db.QueryRow(ctx, query, u.Email, u.Name, u.PasswordHash).Scan(&u.ID, &u.CreatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// FindByEmail returns user by email.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `
        SELECT id, email, name, password_hash, created_at
        FROM users
        WHERE email = $1
    `
	return r.scanOne(ctx, query, email)
}

func (r *UserRepository) FindByID(ctx context.Context, id int) (*model.User, error) {
	query := `
        SELECT id, email, name, password_hash, created_at
        FROM users
        WHERE id = $1
    `
	return r.scanOne(ctx, query, id)
}

func (r *UserRepository) scanOne(ctx context.Context, query string, arg any) (*model.User, error) {
	var u model.User
	err := r.db.QueryRow(ctx, query, arg).Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
