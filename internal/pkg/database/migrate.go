package database

import (
	"context"
	_ "embed"
	"fmt"
)

//go:embed migrations/schema.sql
var schemaSQL string

// Migrate applies the embedded schema. Every statement is idempotent.
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.Pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
