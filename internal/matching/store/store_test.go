package store_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/spendingtracker/internal/database"
	"github.com/MrJamesThe3rd/spendingtracker/internal/matching"
	"github.com/MrJamesThe3rd/spendingtracker/internal/matching/store"
)

func newStore(t *testing.T) *store.Store {
	t.Helper()

	db, err := database.Open(database.DriverSQLite, filepath.Join(t.TempDir(), "rules.db"))
	require.NoError(t, err)

	t.Cleanup(func() { db.Close() })

	return store.New(db, database.DriverSQLite)
}

func rule(pattern, name string, at time.Time) *matching.Rule {
	return &matching.Rule{ID: uuid.New(), Pattern: pattern, Name: name, CreatedAt: at}
}

func TestStore_FindMatch(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.CreateRule(ctx, rule("uber", "Taxi", base)))
	require.NoError(t, s.CreateRule(ctx, rule("uber eats", "Food delivery", base)))
	require.NoError(t, s.CreateRule(ctx, rule("UBER", "Ride", base.Add(time.Hour))))

	got, err := s.FindMatch(ctx, "UBER EATS LISBOA")
	require.NoError(t, err)
	assert.Equal(t, "Food delivery", got, "longest pattern wins")

	got, err = s.FindMatch(ctx, "Uber *Trip")
	require.NoError(t, err)
	assert.Equal(t, "Ride", got, "newest rule wins a tie")

	got, err = s.FindMatch(ctx, "Coffee")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStore_FindMatch_PatternsAreLiteral(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.CreateRule(ctx, rule("50%", "Half price", base)))
	require.NoError(t, s.CreateRule(ctx, rule("a_b", "Underscore", base)))
	require.NoError(t, s.CreateRule(ctx, rule("x!y", "Bang", base)))

	tests := []struct {
		raw  string
		want string
	}{
		{raw: "500 COFFEE", want: ""},
		{raw: "PROMO 50% OFF", want: "Half price"},
		{raw: "AXB STORE", want: ""},
		{raw: "A_B STORE", want: "Underscore"},
		{raw: "XY", want: ""},
		{raw: "SHOP X!Y", want: "Bang"},
	}

	for _, tt := range tests {
		got, err := s.FindMatch(ctx, tt.raw)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.raw)
	}
}

func TestStore_ListAndDelete(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	older := rule("uber", "Taxi", base)
	newer := rule("continente", "Groceries", base.Add(time.Minute))

	require.NoError(t, s.CreateRule(ctx, older))
	require.NoError(t, s.CreateRule(ctx, newer))

	rules, err := s.ListRules(ctx)
	require.NoError(t, err)
	require.Len(t, rules, 2)
	assert.Equal(t, newer.ID, rules[0].ID)
	assert.Equal(t, "Groceries", rules[0].Name)
	assert.True(t, older.CreatedAt.Equal(rules[1].CreatedAt))

	require.NoError(t, s.DeleteRule(ctx, older.ID))
	assert.ErrorIs(t, s.DeleteRule(ctx, older.ID), matching.ErrNotFound)

	rules, err = s.ListRules(ctx)
	require.NoError(t, err)
	assert.Len(t, rules, 1)
}
