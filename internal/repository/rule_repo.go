package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"notifyhub/internal/model"
	"notifyhub/pkg/otel"
)

type RuleRepository struct {
	db *pgxpool.Pool
}

func NewRuleRepository(db *pgxpool.Pool) *RuleRepository {
	return &RuleRepository{db: db}
}

// ListByUser returns the user's rules in creation order.
func (r *RuleRepository) ListByUser(ctx context.Context, userID int) ([]model.WhitelistRule, error) {
	query := `
        SELECT id, user_id, source, type, value, is_urgent, is_important, category, created_at
        FROM whitelist_rules
        WHERE user_id = $1
        ORDER BY created_at, id
    `
	var rules []model.WhitelistRule
	err := otel.DB(ctx, "SELECT", "whitelist_rules", func(ctx context.Context) error {
		rows, err := r.db.Query(ctx, query, userID)
		if err != nil {
			return fmt.Errorf("query rules: %w", err)
		}
		rules, err = pgx.CollectRows(rows, scanRule)
		if err != nil {
			return fmt.Errorf("scan rules: %w", err)
		}
		return nil
	})
	return rules, err
}

// Upsert inserts rule, or updates the flags and category of the user's
// existing rule with the same source, type and value (case-insensitive).
// created reports which happened. rule is refreshed from the stored row.
func (r *RuleRepository) Upsert(ctx context.Context, rule *model.WhitelistRule) (created bool, err error) {
	query := `
        INSERT INTO whitelist_rules (id, user_id, source, type, value, is_urgent, is_important, category, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
        ON CONFLICT (user_id, source, type, lower(value)) DO UPDATE
        SET is_urgent = EXCLUDED.is_urgent,
            is_important = EXCLUDED.is_important,
            category = EXCLUDED.category
        RETURNING id, value, created_at, (xmax = 0) AS inserted
    `
	var id uuid.UUID
	err = otel.DB(ctx, "INSERT", "whitelist_rules", func(ctx context.Context) error {
		return r.db.QueryRow(ctx, query,
			uuid.New(), rule.UserID, string(rule.Source), string(rule.Type), rule.Value,
			rule.IsUrgent, rule.IsImportant, rule.Category,
		).Scan(&id, &rule.Value, &rule.CreatedAt, &created)
	})
	if err != nil {
		return false, fmt.Errorf("upsert rule: %w", err)
	}
	rule.ID = id.String()
	return created, nil
}

// Delete removes one of the user's rules. ErrNotFound when no such rule
// belongs to the user.
func (r *RuleRepository) Delete(ctx context.Context, userID int, ruleID uuid.UUID) error {
	var tag pgconn.CommandTag
	err := otel.DB(ctx, "DELETE", "whitelist_rules", func(ctx context.Context) (err error) {
		tag, err = r.db.Exec(ctx, `DELETE FROM whitelist_rules WHERE id = $1 AND user_id = $2`, ruleID, userID)
		return err
	})
	if err != nil {
		return fmt.Errorf("delete rule: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanRule(row pgx.CollectableRow) (model.WhitelistRule, error) {
	var (
		rule     model.WhitelistRule
		id       uuid.UUID
		src, typ string
	)
	err := row.Scan(&id, &rule.UserID, &src, &typ, &rule.Value,
		&rule.IsUrgent, &rule.IsImportant, &rule.Category, &rule.CreatedAt)
	rule.ID = id.String()
	rule.Source = model.Source(src)
	rule.Type = model.RuleType(typ)
	return rule, err
}
