package transaction

import (
	"context"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/spendingtracker/internal/live"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	CardExists(ctx context.Context, cardID uuid.UUID) (bool, error)
	CreateTransaction(ctx context.Context, tx *Transaction) error
	CreateTransactions(ctx context.Context, txs []*Transaction) error
	GetTransaction(ctx context.Context, id uuid.UUID) (*Transaction, error)
	ListTransactions(ctx context.Context, cardID uuid.UUID) ([]*Transaction, error)
	DeleteTransaction(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo Repository
	feed *live.Feed
	now  func() time.Time
}

func NewService(repo Repository, feed *live.Feed) *Service {
	return &Service{repo: repo, feed: feed, now: time.Now}
}

// SetClock overrides the time source used for CreatedAt and missing dates.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// CreateParams is the transaction form draft. Amount stays raw text and is
// coerced on save.
type CreateParams struct {
	Name      string
	Amount    string
	Timestamp time.Time
	PhotoData []byte
}

// ParseAmount reads a money amount. Anything that is not a finite number
// becomes 0.
func ParseAmount(s string) float32 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 32)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}

	return float32(v)
}

func (s *Service) Create(ctx context.Context, cardID uuid.UUID, params CreateParams) (*Transaction, error) {
	if err := s.requireCard(ctx, cardID); err != nil {
		return nil, err
	}

	tx := s.build(cardID, params)
	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		slog.ErrorContext(ctx, "failed to create transaction", "card_id", cardID, "error", err)
		return nil, err
	}

	slog.DebugContext(ctx, "transaction created", "id", tx.ID, "card_id", cardID)
	s.feed.Publish()

	return tx, nil
}

// CreateBatch stores every params entry on the card in a single commit.
// The card must exist even when params is empty.
func (s *Service) CreateBatch(ctx context.Context, cardID uuid.UUID, params []CreateParams) ([]*Transaction, error) {
	if err := s.requireCard(ctx, cardID); err != nil {
		return nil, err
	}

	if len(params) == 0 {
		return nil, nil
	}

	txs := make([]*Transaction, len(params))
	for i, p := range params {
		txs[i] = s.build(cardID, p)
	}

	if err := s.repo.CreateTransactions(ctx, txs); err != nil {
		slog.ErrorContext(ctx, "failed to create transactions", "card_id", cardID, "count", len(txs), "error", err)
		return nil, err
	}

	slog.DebugContext(ctx, "transactions created", "card_id", cardID, "count", len(txs))
	s.feed.Publish()

	return txs, nil
}

func (s *Service) requireCard(ctx context.Context, cardID uuid.UUID) error {
	if cardID == uuid.Nil {
		return ErrCardRequired
	}

	ok, err := s.repo.CardExists(ctx, cardID)
	if err != nil {
		return err
	}

	if !ok {
		return ErrCardRequired
	}

	return nil
}

func (s *Service) build(cardID uuid.UUID, p CreateParams) *Transaction {
	now := s.now().UTC()

	ts := p.Timestamp
	if ts.IsZero() {
		ts = now
	}

	return &Transaction{
		ID:        uuid.New(),
		CardID:    cardID,
		Name:      p.Name,
		Amount:    ParseAmount(p.Amount),
		Timestamp: ts.UTC(),
		PhotoData: p.PhotoData,
		CreatedAt: now,
	}
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	return s.repo.GetTransaction(ctx, id)
}

// List returns the card's transactions, newest first.
func (s *Service) List(ctx context.Context, cardID uuid.UUID) ([]*Transaction, error) {
	return s.repo.ListTransactions(ctx, cardID)
}

// Watch streams the card's transactions, re-reading them after every commit.
func (s *Service) Watch(ctx context.Context, cardID uuid.UUID) <-chan live.Result[[]*Transaction] {
	return live.Watch(ctx, s.feed, func(ctx context.Context) ([]*Transaction, error) {
		return s.List(ctx, cardID)
	})
}

func (s *Service) Delete(ctx context.Context, tx *Transaction) error {
	if err := s.repo.DeleteTransaction(ctx, tx.ID); err != nil {
		slog.ErrorContext(ctx, "failed to delete transaction", "id", tx.ID, "error", err)
		return err
	}

	slog.DebugContext(ctx, "transaction deleted", "id", tx.ID)
	s.feed.Publish()

	return nil
}

// Total sums the amounts of txs.
func Total(txs []*Transaction) float64 {
	var sum float64
	for _, tx := range txs {
		sum += float64(tx.Amount)
	}

	return sum
}
