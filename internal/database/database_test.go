package database

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := Open(DriverSQLite, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	t.Cleanup(func() { db.Close() })

	return db
}

func TestOpen_MigratesAndIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "spending.db")

	db, err := Open(DriverSQLite, path)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	// Second open hits ErrNoChange.
	db, err = Open(DriverSQLite, path)
	require.NoError(t, err)

	defer db.Close()

	var n int
	err = db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('cards', 'card_transactions', 'name_rules')`).Scan(&n)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestOpen_Rejects(t *testing.T) {
	_, err := Open(DriverSQLite, ":memory:")
	assert.Error(t, err)

	_, err = Open("mysql", "x")
	assert.Error(t, err)
}

func TestOpen_ForeignKeysEnabled(t *testing.T) {
	db := openTestDB(t)

	var on int
	require.NoError(t, db.QueryRow(`PRAGMA foreign_keys`).Scan(&on))
	assert.Equal(t, 1, on)
}

func TestRebind(t *testing.T) {
	q := "SELECT * FROM t WHERE a = ? AND b = ?"

	assert.Equal(t, q, Rebind(DriverSQLite, q))
	assert.Equal(t, "SELECT * FROM t WHERE a = $1 AND b = $2", Rebind(DriverPostgres, q))
}

func TestWithTx(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	t.Run("Commit", func(t *testing.T) {
		err := WithTx(ctx, db, "insert", func(tx *sql.Tx) error {
			_, err := tx.ExecContext(ctx, `INSERT INTO cards (id, exp_year, timestamp) VALUES ('a', 2030, CURRENT_TIMESTAMP)`)
			return err
		})
		require.NoError(t, err)

		var n int
		require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM cards`).Scan(&n))
		assert.Equal(t, 1, n)
	})

	t.Run("RollbackOnError", func(t *testing.T) {
		boom := errors.New("boom")

		err := WithTx(ctx, db, "insert", func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, `INSERT INTO cards (id, exp_year, timestamp) VALUES ('b', 2030, CURRENT_TIMESTAMP)`); err != nil {
				return err
			}

			return boom
		})
		require.Error(t, err)
		assert.True(t, IsPersistence(err))
		assert.ErrorIs(t, err, boom)

		var n int
		require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM cards WHERE id = 'b'`).Scan(&n))
		assert.Zero(t, n)
	})
}

func TestPersistence(t *testing.T) {
	assert.NoError(t, Persistence("op", nil))

	err := Persistence("save card", errors.New("disk full"))
	assert.EqualError(t, err, "persistence: save card: disk full")

	// Already wrapped errors keep their original op.
	again := Persistence("outer", err)
	var pe *PersistenceError
	require.ErrorAs(t, again, &pe)
	assert.Equal(t, "save card", pe.Op)
}
