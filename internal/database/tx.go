package database

import (
	"context"
	"database/sql"
	"fmt"
)

// WithTx runs fn inside a database transaction and commits it.
// On any failure the transaction is rolled back and the error comes back
// as a *PersistenceError tagged with op.
func WithTx(ctx context.Context, db *sql.DB, op string, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return Persistence(op, fmt.Errorf("beginning transaction: %w", err))
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return Persistence(op, err)
	}

	if err := tx.Commit(); err != nil {
		return Persistence(op, fmt.Errorf("committing transaction: %w", err))
	}

	return nil
}
