package importer_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/spendingtracker/internal/importer"
	"github.com/MrJamesThe3rd/spendingtracker/internal/transaction"
)

type fakeCreator struct {
	cardID uuid.UUID
	params []transaction.CreateParams
	err    error
}

func (f *fakeCreator) CreateBatch(_ context.Context, cardID uuid.UUID, params []transaction.CreateParams) ([]*transaction.Transaction, error) {
	f.cardID = cardID
	f.params = params

	if f.err != nil {
		return nil, f.err
	}

	txs := make([]*transaction.Transaction, len(params))
	for i, p := range params {
		txs[i] = &transaction.Transaction{ID: uuid.New(), CardID: cardID, Name: p.Name, Amount: transaction.ParseAmount(p.Amount)}
	}

	return txs, nil
}

func TestService_Import(t *testing.T) {
	cardID := uuid.New()
	csv := "date;name;amount\n2026-03-01;Coffee;4,20\n2026-03-02;Taxi;18\n"

	t.Run("Success", func(t *testing.T) {
		creator := &fakeCreator{}

		txs, err := importer.NewService(creator).Import(context.Background(), cardID, strings.NewReader(csv))
		require.NoError(t, err)
		require.Len(t, txs, 2)

		assert.Equal(t, cardID, creator.cardID)
		assert.Equal(t, "Coffee", txs[0].Name)
		assert.InDelta(t, 4.2, txs[0].Amount, 0.0001)
		assert.InDelta(t, 18, txs[1].Amount, 0.0001)
	})

	t.Run("ParseErrorStoresNothing", func(t *testing.T) {
		creator := &fakeCreator{}

		_, err := importer.NewService(creator).Import(context.Background(), cardID, strings.NewReader("nope"))
		assert.ErrorIs(t, err, importer.ErrNoProfile)
		assert.Nil(t, creator.params)
	})

	t.Run("CreateError", func(t *testing.T) {
		creator := &fakeCreator{err: transaction.ErrCardRequired}

		_, err := importer.NewService(creator).Import(context.Background(), cardID, strings.NewReader(csv))
		assert.True(t, errors.Is(err, transaction.ErrCardRequired))
	})

	t.Run("NameRules", func(t *testing.T) {
		creator := &fakeCreator{}
		rules := fakeNames{"coffee": "Morning coffee"}

		txs, err := importer.NewService(creator, importer.WithNameRules(rules)).
			Import(context.Background(), cardID, strings.NewReader(csv))
		require.NoError(t, err)
		require.Len(t, txs, 2)

		assert.Equal(t, "Morning coffee", txs[0].Name)
		assert.Equal(t, "Taxi", txs[1].Name)
	})

	t.Run("NameRuleErrorStoresNothing", func(t *testing.T) {
		creator := &fakeCreator{}

		_, err := importer.NewService(creator, importer.WithNameRules(failingNames{})).
			Import(context.Background(), cardID, strings.NewReader(csv))
		require.Error(t, err)
		assert.Nil(t, creator.params)
	})
}

type fakeNames map[string]string

func (f fakeNames) Suggest(_ context.Context, raw string) (string, error) {
	return f[strings.ToLower(raw)], nil
}

type failingNames struct{}

func (failingNames) Suggest(context.Context, string) (string, error) {
	return "", errors.New("store down")
}
