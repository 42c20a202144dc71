package db

import (
	"context"
	"fmt"
	"io/fs"
	"sort"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Migrate executes every *.up.sql file in fsys in name order. The files are
// expected to be idempotent.
func Migrate(ctx context.Context, pool *pgxpool.Pool, fsys fs.FS, logger *zap.Logger) error {
	names, err := fs.Glob(fsys, "*.up.sql")
	if err != nil {
		return err
	}
	sort.Strings(names)

	for _, name := range names {
		sql, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		if _, err := pool.Exec(ctx, string(sql)); err != nil {
			return fmt.Errorf("apply %s: %w", name, err)
		}
		logger.Info("Applied migration", zap.String("file", name))
	}
	return nil
}
