package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/spendingtracker/internal/database"
	"github.com/MrJamesThe3rd/spendingtracker/internal/transaction"
)

type Store struct {
	db     *sql.DB
	driver string
}

func New(db *sql.DB, driver string) *Store {
	return &Store{db: db, driver: driver}
}

func (s *Store) q(query string) string {
	return database.Rebind(s.driver, query)
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanTransaction reads a transaction row.
// Expected column order: id, card_id, name, amount, timestamp, photo_data, created_at
func scanTransaction(s scanner) (*transaction.Transaction, error) {
	var tx transaction.Transaction

	if err := s.Scan(
		&tx.ID, &tx.CardID, &tx.Name, &tx.Amount, &tx.Timestamp, &tx.PhotoData, &tx.CreatedAt,
	); err != nil {
		return nil, err
	}

	tx.Timestamp = tx.Timestamp.UTC()
	tx.CreatedAt = tx.CreatedAt.UTC()

	if len(tx.PhotoData) == 0 {
		tx.PhotoData = nil
	}

	return &tx, nil
}

const selectTransactionColumns = `id, card_id, name, amount, timestamp, photo_data, created_at`

const insertTransaction = `
	INSERT INTO card_transactions (id, card_id, name, amount, timestamp, photo_data, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
`

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *Store) insert(ctx context.Context, e execer, tx *transaction.Transaction) error {
	_, err := e.ExecContext(ctx, s.q(insertTransaction),
		tx.ID,
		tx.CardID,
		tx.Name,
		tx.Amount,
		tx.Timestamp.UTC(),
		tx.PhotoData,
		tx.CreatedAt.UTC(),
	)

	return err
}

func (s *Store) CardExists(ctx context.Context, cardID uuid.UUID) (bool, error) {
	var exists bool

	err := s.db.QueryRowContext(ctx, s.q(`SELECT EXISTS(SELECT 1 FROM cards WHERE id = ?)`), cardID).Scan(&exists)
	if err != nil {
		return false, database.Persistence("check card", err)
	}

	return exists, nil
}

func (s *Store) CreateTransaction(ctx context.Context, tx *transaction.Transaction) error {
	if err := s.insert(ctx, s.db, tx); err != nil {
		return database.Persistence("create transaction", err)
	}

	return nil
}

// CreateTransactions inserts txs in one commit. Either all rows land or none.
func (s *Store) CreateTransactions(ctx context.Context, txs []*transaction.Transaction) error {
	return database.WithTx(ctx, s.db, "create transactions", func(sqlTx *sql.Tx) error {
		for i, tx := range txs {
			if err := s.insert(ctx, sqlTx, tx); err != nil {
				return fmt.Errorf("inserting row %d: %w", i, err)
			}
		}

		return nil
	})
}

func (s *Store) GetTransaction(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + ` FROM card_transactions WHERE id = ?`

	tx, err := scanTransaction(s.db.QueryRowContext(ctx, s.q(query), id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, transaction.ErrNotFound
		}

		return nil, database.Persistence("get transaction", err)
	}

	return tx, nil
}

// ListTransactions returns the card's transactions, newest first.
func (s *Store) ListTransactions(ctx context.Context, cardID uuid.UUID) ([]*transaction.Transaction, error) {
	query := `
		SELECT ` + selectTransactionColumns + `
		FROM card_transactions
		WHERE card_id = ?
		ORDER BY timestamp DESC, created_at DESC, id
	`

	rows, err := s.db.QueryContext(ctx, s.q(query), cardID)
	if err != nil {
		return nil, database.Persistence("list transactions", err)
	}
	defer rows.Close()

	txs := []*transaction.Transaction{}

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, database.Persistence("list transactions", fmt.Errorf("scanning transaction: %w", err))
		}

		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, database.Persistence("list transactions", err)
	}

	return txs, nil
}

func (s *Store) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, s.q(`DELETE FROM card_transactions WHERE id = ?`), id)
	if err != nil {
		return database.Persistence("delete transaction", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return database.Persistence("delete transaction", err)
	}

	if n == 0 {
		return transaction.ErrNotFound
	}

	return nil
}
