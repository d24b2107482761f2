//go:build integration

package testutil

import (
	"context"
	"fmt"
	"time"

	"github.com/Gunvolt24/kgroup/internal/repo/postgres"
)

// ApplyMigrationsGoose — применяет встроенные миграции к базе контейнера.
func ApplyMigrationsGoose(dsn string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, dsn, 2)
	if err != nil {
		return err
	}
	defer pool.Close()

	if _, err := postgres.Migrate(ctx, pool); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
