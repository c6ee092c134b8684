package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/spendingtracker/internal/card"
	"github.com/MrJamesThe3rd/spendingtracker/internal/database"
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

// scanCard reads a card row.
// Expected column order: id, name, number, card_limit, type, exp_month, exp_year, color, timestamp
func scanCard(s scanner) (*card.Card, error) {
	var c card.Card

	var typeStr string

	if err := s.Scan(
		&c.ID, &c.Name, &c.Number, &c.Limit, &typeStr,
		&c.ExpMonth, &c.ExpYear, &c.Color, &c.Timestamp,
	); err != nil {
		return nil, err
	}

	c.Type = card.Type(typeStr)
	c.Timestamp = c.Timestamp.UTC()

	return &c, nil
}

const selectCardColumns = `id, name, number, card_limit, type, exp_month, exp_year, color, timestamp`

func (s *Store) CreateCard(ctx context.Context, c *card.Card) error {
	query := `
		INSERT INTO cards (id, name, number, card_limit, type, exp_month, exp_year, color, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, s.q(query),
		c.ID,
		c.Name,
		c.Number,
		c.Limit,
		string(c.Type),
		c.ExpMonth,
		c.ExpYear,
		c.Color,
		c.Timestamp.UTC(),
	)
	if err != nil {
		return database.Persistence("create card", err)
	}

	return nil
}

func (s *Store) UpdateCard(ctx context.Context, c *card.Card) error {
	query := `
		UPDATE cards
		SET name = ?, number = ?, card_limit = ?, type = ?, exp_month = ?, exp_year = ?, color = ?
		WHERE id = ?
	`

	res, err := s.db.ExecContext(ctx, s.q(query),
		c.Name,
		c.Number,
		c.Limit,
		string(c.Type),
		c.ExpMonth,
		c.ExpYear,
		c.Color,
		c.ID,
	)
	if err != nil {
		return database.Persistence("update card", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return database.Persistence("update card", err)
	}

	if n == 0 {
		return card.ErrNotFound
	}

	return nil
}

func (s *Store) GetCard(ctx context.Context, id uuid.UUID) (*card.Card, error) {
	query := `SELECT ` + selectCardColumns + ` FROM cards WHERE id = ?`

	c, err := scanCard(s.db.QueryRowContext(ctx, s.q(query), id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, card.ErrNotFound
		}

		return nil, database.Persistence("get card", err)
	}

	return c, nil
}

// ListCards returns every card, newest first.
func (s *Store) ListCards(ctx context.Context) ([]*card.Card, error) {
	query := `SELECT ` + selectCardColumns + ` FROM cards ORDER BY timestamp DESC, id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, database.Persistence("list cards", err)
	}
	defer rows.Close()

	cards := []*card.Card{}

	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, database.Persistence("list cards", fmt.Errorf("scanning card: %w", err))
		}

		cards = append(cards, c)
	}

	if err := rows.Err(); err != nil {
		return nil, database.Persistence("list cards", err)
	}

	return cards, nil
}

// DeleteCard removes the card and its transactions in one commit. The
// explicit child delete keeps the cascade even where foreign keys are off.
func (s *Store) DeleteCard(ctx context.Context, id uuid.UUID) error {
	var found bool

	err := database.WithTx(ctx, s.db, "delete card", func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, s.q(`DELETE FROM card_transactions WHERE card_id = ?`), id); err != nil {
			return fmt.Errorf("deleting card transactions: %w", err)
		}

		res, err := tx.ExecContext(ctx, s.q(`DELETE FROM cards WHERE id = ?`), id)
		if err != nil {
			return fmt.Errorf("deleting card: %w", err)
		}

		n, err := res.RowsAffected()
		if err != nil {
			return err
		}

		found = n > 0

		return nil
	})
	if err != nil {
		return err
	}

	if !found {
		return card.ErrNotFound
	}

	return nil
}

// DeleteAllCards empties both tables atomically.
func (s *Store) DeleteAllCards(ctx context.Context) error {
	return database.WithTx(ctx, s.db, "delete all cards", func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM card_transactions`); err != nil {
			return fmt.Errorf("deleting transactions: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM cards`); err != nil {
			return fmt.Errorf("deleting cards: %w", err)
		}

		return nil
	})
}
