package store_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/spendingtracker/internal/card"
	cardstore "github.com/MrJamesThe3rd/spendingtracker/internal/card/store"
	"github.com/MrJamesThe3rd/spendingtracker/internal/database"
	"github.com/MrJamesThe3rd/spendingtracker/internal/transaction"
	"github.com/MrJamesThe3rd/spendingtracker/internal/transaction/store"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.Open(database.DriverSQLite, filepath.Join(t.TempDir(), "tracker.db"))
	require.NoError(t, err)

	t.Cleanup(func() { db.Close() })

	return db
}

func seedCard(t *testing.T, db *sql.DB) *card.Card {
	t.Helper()

	c := &card.Card{
		ID:        uuid.New(),
		Name:      "Chase",
		Number:    "4111",
		Type:      card.TypeVisa,
		ExpMonth:  3,
		ExpYear:   2030,
		Timestamp: time.Now().UTC(),
	}
	require.NoError(t, cardstore.New(db, database.DriverSQLite).CreateCard(context.Background(), c))

	return c
}

func newTx(cardID uuid.UUID, name string, ts time.Time) *transaction.Transaction {
	return &transaction.Transaction{
		ID:        uuid.New(),
		CardID:    cardID,
		Name:      name,
		Amount:    12.5,
		Timestamp: ts,
		CreatedAt: time.Now().UTC(),
	}
}

func TestStore_CardExists(t *testing.T) {
	db := openDB(t)
	s := store.New(db, database.DriverSQLite)
	c := seedCard(t, db)

	ok, err := s.CardExists(context.Background(), c.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.CardExists(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_CreateGet(t *testing.T) {
	db := openDB(t)
	s := store.New(db, database.DriverSQLite)
	ctx := context.Background()
	c := seedCard(t, db)

	ts := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	tx := newTx(c.ID, "Groceries", ts)
	tx.PhotoData = []byte{0xff, 0xd8, 0xff}

	require.NoError(t, s.CreateTransaction(ctx, tx))

	got, err := s.GetTransaction(ctx, tx.ID)
	require.NoError(t, err)

	assert.Equal(t, tx.ID, got.ID)
	assert.Equal(t, c.ID, got.CardID)
	assert.Equal(t, "Groceries", got.Name)
	assert.InDelta(t, 12.5, got.Amount, 0.0001)
	assert.True(t, ts.Equal(got.Timestamp))
	assert.Equal(t, []byte{0xff, 0xd8, 0xff}, got.PhotoData)

	_, err = s.GetTransaction(ctx, uuid.New())
	assert.ErrorIs(t, err, transaction.ErrNotFound)
}

func TestStore_CreateWithoutCardFails(t *testing.T) {
	s := store.New(openDB(t), database.DriverSQLite)

	err := s.CreateTransaction(context.Background(), newTx(uuid.New(), "orphan", time.Now()))
	require.Error(t, err)
	assert.True(t, database.IsPersistence(err))
}

func TestStore_ListNewestFirstPerCard(t *testing.T) {
	db := openDB(t)
	s := store.New(db, database.DriverSQLite)
	ctx := context.Background()

	a := seedCard(t, db)
	b := seedCard(t, db)

	empty, err := s.ListTransactions(ctx, a.ID)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	t1 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := t1.Add(24 * time.Hour)

	require.NoError(t, s.CreateTransaction(ctx, newTx(a.ID, "T1", t1)))
	require.NoError(t, s.CreateTransaction(ctx, newTx(a.ID, "T2", t2)))
	require.NoError(t, s.CreateTransaction(ctx, newTx(b.ID, "other", t2)))

	got, err := s.ListTransactions(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "T2", got[0].Name)
	assert.Equal(t, "T1", got[1].Name)
	assert.Nil(t, got[0].PhotoData)
}

func TestStore_CreateTransactionsIsAtomic(t *testing.T) {
	db := openDB(t)
	s := store.New(db, database.DriverSQLite)
	ctx := context.Background()
	c := seedCard(t, db)

	now := time.Now().UTC()
	ok := []*transaction.Transaction{newTx(c.ID, "a", now), newTx(c.ID, "b", now)}
	require.NoError(t, s.CreateTransactions(ctx, ok))

	dup := newTx(c.ID, "c", now)
	err := s.CreateTransactions(ctx, []*transaction.Transaction{dup, ok[0]})
	require.Error(t, err)
	assert.True(t, database.IsPersistence(err))

	got, err := s.ListTransactions(ctx, c.ID)
	require.NoError(t, err)
	assert.Len(t, got, 2, "a failed batch must leave no rows behind")
}

func TestStore_Delete(t *testing.T) {
	db := openDB(t)
	s := store.New(db, database.DriverSQLite)
	ctx := context.Background()
	c := seedCard(t, db)

	tx := newTx(c.ID, "gone", time.Now())
	require.NoError(t, s.CreateTransaction(ctx, tx))

	require.NoError(t, s.DeleteTransaction(ctx, tx.ID))
	assert.ErrorIs(t, s.DeleteTransaction(ctx, tx.ID), transaction.ErrNotFound)

	exists, err := s.CardExists(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, exists, "deleting a transaction keeps its card")
}
