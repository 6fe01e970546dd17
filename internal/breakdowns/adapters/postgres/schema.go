package postgres

import (
	"context"
	_ "embed"
)

//go:embed schema.sql
var schemaSQL string

// EnsureSchema creates the insights and feature_flags tables when missing.
func EnsureSchema(ctx context.Context, db DB) error {
	_, err := db.ExecContext(ctx, schemaSQL)
	return err
}
