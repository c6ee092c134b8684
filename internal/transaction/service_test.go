package transaction_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/spendingtracker/internal/live"
	"github.com/MrJamesThe3rd/spendingtracker/internal/transaction"
)

var fixedNow = time.Date(2026, 4, 2, 12, 0, 0, 0, time.UTC)

func newService(t *testing.T) (*transaction.Service, *transaction.MockRepository, *live.Feed) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := transaction.NewMockRepository(ctrl)
	feed := live.NewFeed()

	svc := transaction.NewService(repo, feed)
	svc.SetClock(func() time.Time { return fixedNow })

	return svc, repo, feed
}

func TestParseAmount(t *testing.T) {
	tests := map[string]float32{
		"12.50":  12.5,
		" 3 ":    3,
		"-4.25":  -4.25,
		"xyz":    0,
		"":       0,
		"1,50":   0,
		"NaN":    0,
		"+Inf":   0,
		"1e2":    100,
		"0.0001": 0.0001,
	}

	for in, want := range tests {
		assert.Equal(t, want, transaction.ParseAmount(in), "ParseAmount(%q)", in)
	}
}

func TestService_Create(t *testing.T) {
	cardID := uuid.New()
	date := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	type testCase struct {
		name      string
		cardID    uuid.UUID
		params    transaction.CreateParams
		setupMock func(m *transaction.MockRepository)
		check     func(t *testing.T, got *transaction.Transaction)
		wantErr   error
	}

	tests := []testCase{
		{
			name:   "Success",
			cardID: cardID,
			params: transaction.CreateParams{Name: "Coffee", Amount: "4.20", Timestamp: date, PhotoData: []byte{0xff, 0xd8}},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().CardExists(gomock.Any(), cardID).Return(true, nil)
				m.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).Return(nil)
			},
			check: func(t *testing.T, got *transaction.Transaction) {
				assert.NotEqual(t, uuid.Nil, got.ID)
				assert.Equal(t, cardID, got.CardID)
				assert.Equal(t, "Coffee", got.Name)
				assert.InDelta(t, 4.20, got.Amount, 0.0001)
				assert.Equal(t, date, got.Timestamp)
				assert.Equal(t, []byte{0xff, 0xd8}, got.PhotoData)
				assert.Equal(t, fixedNow, got.CreatedAt)
			},
		},
		{
			name:   "NonNumericAmountAndMissingDate",
			cardID: cardID,
			params: transaction.CreateParams{Name: "Lunch", Amount: "xyz"},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().CardExists(gomock.Any(), cardID).Return(true, nil)
				m.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).Return(nil)
			},
			check: func(t *testing.T, got *transaction.Transaction) {
				assert.Equal(t, float32(0), got.Amount)
				assert.Equal(t, fixedNow, got.Timestamp)
				assert.Nil(t, got.PhotoData)
				assert.False(t, got.HasPhoto())
			},
		},
		{
			name:      "NilCard",
			cardID:    uuid.Nil,
			setupMock: func(m *transaction.MockRepository) {},
			wantErr:   transaction.ErrCardRequired,
		},
		{
			name:   "UnknownCard",
			cardID: cardID,
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().CardExists(gomock.Any(), cardID).Return(false, nil)
			},
			wantErr: transaction.ErrCardRequired,
		},
		{
			name:   "RepoError",
			cardID: cardID,
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().CardExists(gomock.Any(), cardID).Return(true, nil)
				m.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).Return(errors.New("db error"))
			},
			wantErr: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, feed := newService(t)

			published := 0
			feed.Subscribe(func() { published++ })

			tt.setupMock(repo)

			got, err := svc.Create(context.Background(), tt.cardID, tt.params)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.EqualError(t, err, tt.wantErr.Error())
				assert.Nil(t, got)
				assert.Zero(t, published)

				return
			}

			require.NoError(t, err)
			tt.check(t, got)
			assert.Equal(t, 1, published)
		})
	}
}

func TestService_CreateBatch(t *testing.T) {
	cardID := uuid.New()

	t.Run("Empty", func(t *testing.T) {
		svc, repo, _ := newService(t)

		repo.EXPECT().CardExists(gomock.Any(), cardID).Return(true, nil)

		got, err := svc.CreateBatch(context.Background(), cardID, nil)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("EmptyUnknownCard", func(t *testing.T) {
		svc, repo, _ := newService(t)

		repo.EXPECT().CardExists(gomock.Any(), cardID).Return(false, nil)

		_, err := svc.CreateBatch(context.Background(), cardID, nil)
		assert.ErrorIs(t, err, transaction.ErrCardRequired)
	})

	t.Run("SingleCommit", func(t *testing.T) {
		svc, repo, feed := newService(t)

		published := 0
		feed.Subscribe(func() { published++ })

		repo.EXPECT().CardExists(gomock.Any(), cardID).Return(true, nil)
		repo.EXPECT().
			CreateTransactions(gomock.Any(), gomock.Len(2)).
			Return(nil)

		got, err := svc.CreateBatch(context.Background(), cardID, []transaction.CreateParams{
			{Name: "a", Amount: "1"},
			{Name: "b", Amount: "2"},
		})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.NotEqual(t, got[0].ID, got[1].ID)
		assert.Equal(t, 1, published)
	})
}

func TestService_List(t *testing.T) {
	cardID := uuid.New()

	tests := []struct {
		name      string
		setupMock func(m *transaction.MockRepository)
		wantLen   int
		wantErr   bool
	}{
		{
			name: "Success",
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					ListTransactions(gomock.Any(), cardID).
					Return([]*transaction.Transaction{{ID: uuid.New()}, {ID: uuid.New()}}, nil)
			},
			wantLen: 2,
		},
		{
			name: "Error",
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					ListTransactions(gomock.Any(), cardID).
					Return(nil, errors.New("list error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _ := newService(t)
			tt.setupMock(repo)

			got, err := svc.List(context.Background(), cardID)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)

				return
			}

			assert.NoError(t, err)
			assert.Len(t, got, tt.wantLen)
		})
	}
}

func TestService_Delete(t *testing.T) {
	tx := &transaction.Transaction{ID: uuid.New()}

	svc, repo, feed := newService(t)

	published := 0
	feed.Subscribe(func() { published++ })

	gomock.InOrder(
		repo.EXPECT().DeleteTransaction(gomock.Any(), tx.ID).Return(transaction.ErrNotFound),
		repo.EXPECT().DeleteTransaction(gomock.Any(), tx.ID).Return(nil),
	)

	assert.ErrorIs(t, svc.Delete(context.Background(), tx), transaction.ErrNotFound)
	assert.Zero(t, published)

	require.NoError(t, svc.Delete(context.Background(), tx))
	assert.Equal(t, 1, published)
}

func TestService_Watch(t *testing.T) {
	cardID := uuid.New()
	svc, repo, feed := newService(t)

	gomock.InOrder(
		repo.EXPECT().ListTransactions(gomock.Any(), cardID).Return([]*transaction.Transaction{}, nil),
		repo.EXPECT().ListTransactions(gomock.Any(), cardID).Return([]*transaction.Transaction{{ID: uuid.New()}}, nil).AnyTimes(),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := svc.Watch(ctx, cardID)

	r := <-ch
	require.NoError(t, r.Err)
	assert.Empty(t, r.Value)

	feed.Publish()

	r = <-ch
	require.NoError(t, r.Err)
	assert.Len(t, r.Value, 1)
}

func TestTotal(t *testing.T) {
	assert.Zero(t, transaction.Total(nil))
	assert.InDelta(t, 7.75, transaction.Total([]*transaction.Transaction{{Amount: 5.5}, {Amount: 2.25}}), 0.0001)
}
