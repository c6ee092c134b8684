package matching_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/spendingtracker/internal/matching"
)

func TestService_Suggest(t *testing.T) {
	ctx := context.Background()

	t.Run("Match", func(t *testing.T) {
		repo := matching.NewMockRepository(gomock.NewController(t))
		repo.EXPECT().FindMatch(ctx, "COMPRA 1234 CONTINENTE").Return("Groceries", nil)

		got, err := matching.NewService(repo).Suggest(ctx, "COMPRA 1234 CONTINENTE")
		require.NoError(t, err)
		assert.Equal(t, "Groceries", got)
	})

	t.Run("BlankSkipsLookup", func(t *testing.T) {
		repo := matching.NewMockRepository(gomock.NewController(t))

		got, err := matching.NewService(repo).Suggest(ctx, "   ")
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestService_Learn(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := matching.NewMockRepository(gomock.NewController(t))
		repo.EXPECT().CreateRule(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, r *matching.Rule) error {
			assert.Equal(t, "uber", r.Pattern)
			assert.Equal(t, "Taxi", r.Name)
			assert.NotEqual(t, uuid.Nil, r.ID)
			assert.False(t, r.CreatedAt.IsZero())

			return nil
		})

		r, err := matching.NewService(repo).Learn(ctx, "  uber ", " Taxi")
		require.NoError(t, err)
		assert.Equal(t, "Taxi", r.Name)
	})

	t.Run("Invalid", func(t *testing.T) {
		repo := matching.NewMockRepository(gomock.NewController(t))
		svc := matching.NewService(repo)

		_, err := svc.Learn(ctx, "", "Taxi")
		assert.ErrorIs(t, err, matching.ErrInvalidRule)

		_, err = svc.Learn(ctx, "uber", " ")
		assert.ErrorIs(t, err, matching.ErrInvalidRule)
	})

	t.Run("RepoError", func(t *testing.T) {
		boom := errors.New("boom")

		repo := matching.NewMockRepository(gomock.NewController(t))
		repo.EXPECT().CreateRule(ctx, gomock.Any()).Return(boom)

		_, err := matching.NewService(repo).Learn(ctx, "uber", "Taxi")
		assert.ErrorIs(t, err, boom)
	})
}

func TestService_Forget(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	repo := matching.NewMockRepository(gomock.NewController(t))
	repo.EXPECT().DeleteRule(ctx, id).Return(matching.ErrNotFound)

	assert.ErrorIs(t, matching.NewService(repo).Forget(ctx, id), matching.ErrNotFound)
}
