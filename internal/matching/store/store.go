package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/spendingtracker/internal/database"
	"github.com/MrJamesThe3rd/spendingtracker/internal/matching"
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

// FindMatch returns the preferred name of the longest pattern contained in
// rawDescription, ignoring case. Patterns match literally: % and _ in a
// pattern are escaped before the LIKE comparison.
func (s *Store) FindMatch(ctx context.Context, rawDescription string) (string, error) {
	query := `
		SELECT preferred_name
		FROM name_rules
		WHERE LOWER(?) LIKE '%' || REPLACE(REPLACE(REPLACE(LOWER(raw_pattern), '!', '!!'), '%', '!%'), '_', '!_') || '%' ESCAPE '!'
		ORDER BY LENGTH(raw_pattern) DESC, created_at DESC
		LIMIT 1
	`

	var preferred string

	err := s.db.QueryRowContext(ctx, s.q(query), rawDescription).Scan(&preferred)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}

		return "", database.Persistence("find name rule", err)
	}

	return preferred, nil
}

func (s *Store) CreateRule(ctx context.Context, r *matching.Rule) error {
	query := `
		INSERT INTO name_rules (id, raw_pattern, preferred_name, created_at)
		VALUES (?, ?, ?, ?)
	`

	if _, err := s.db.ExecContext(ctx, s.q(query), r.ID, r.Pattern, r.Name, r.CreatedAt.UTC()); err != nil {
		return database.Persistence("create name rule", err)
	}

	return nil
}

// ListRules returns every rule, newest first.
func (s *Store) ListRules(ctx context.Context) ([]*matching.Rule, error) {
	query := `SELECT id, raw_pattern, preferred_name, created_at FROM name_rules ORDER BY created_at DESC, id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, database.Persistence("list name rules", err)
	}
	defer rows.Close()

	rules := []*matching.Rule{}

	for rows.Next() {
		var r matching.Rule
		if err := rows.Scan(&r.ID, &r.Pattern, &r.Name, &r.CreatedAt); err != nil {
			return nil, database.Persistence("list name rules", fmt.Errorf("scanning rule: %w", err))
		}

		r.CreatedAt = r.CreatedAt.UTC()
		rules = append(rules, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, database.Persistence("list name rules", err)
	}

	return rules, nil
}

func (s *Store) DeleteRule(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, s.q(`DELETE FROM name_rules WHERE id = ?`), id)
	if err != nil {
		return database.Persistence("delete name rule", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return database.Persistence("delete name rule", err)
	}

	if n == 0 {
		return matching.ErrNotFound
	}

	return nil
}
