package card

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/spendingtracker/internal/color"
	"github.com/MrJamesThe3rd/spendingtracker/internal/live"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=card
type Repository interface {
	CreateCard(ctx context.Context, c *Card) error
	UpdateCard(ctx context.Context, c *Card) error
	GetCard(ctx context.Context, id uuid.UUID) (*Card, error)
	ListCards(ctx context.Context) ([]*Card, error)
	DeleteCard(ctx context.Context, id uuid.UUID) error
	DeleteAllCards(ctx context.Context) error
}

type Service struct {
	repo  Repository
	feed  *live.Feed
	codec color.Codec
	now   func() time.Time
}

type Option func(*Service)

// WithClock overrides the time source used to stamp new cards.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithCodec(codec color.Codec) Option {
	return func(s *Service) { s.codec = codec }
}

// NewService builds the card repository facade. Successful writes are
// published on feed so live queries over cards and transactions refresh.
func NewService(repo Repository, feed *live.Feed, opts ...Option) *Service {
	s := &Service{
		repo:  repo,
		feed:  feed,
		codec: color.HexCodec{},
		now:   time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *Service) Codec() color.Codec {
	return s.codec
}

// List returns every card, newest first.
func (s *Service) List(ctx context.Context) ([]*Card, error) {
	return s.repo.ListCards(ctx)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Card, error) {
	return s.repo.GetCard(ctx, id)
}

// Watch streams the card list, re-reading it after every commit.
func (s *Service) Watch(ctx context.Context) <-chan live.Result[[]*Card] {
	return live.Watch(ctx, s.feed, s.List)
}

// CreateOrUpdate saves the form draft f. A nil existing creates a new card
// with a fresh id and the current time; otherwise existing is updated and
// keeps its timestamp. existing is only modified once the commit succeeds.
func (s *Service) CreateOrUpdate(ctx context.Context, existing *Card, f Fields) (*Card, error) {
	now := s.now()

	c := &Card{}
	if existing != nil {
		*c = *existing
	} else {
		c.ID = uuid.New()
		c.Timestamp = now.UTC()
	}

	c.Name = f.Name
	c.Number = f.Number
	c.Limit = ParseLimit(f.Limit)
	c.Type = f.Type
	c.ExpMonth = NormalizeMonth(f.ExpMonth)
	c.ExpYear = NormalizeYear(f.ExpYear, now)

	if f.Color != nil {
		c.Color = s.codec.Encode(*f.Color)
	}

	if existing == nil {
		if err := s.repo.CreateCard(ctx, c); err != nil {
			slog.ErrorContext(ctx, "failed to create card", "error", err)
			return nil, err
		}

		slog.DebugContext(ctx, "card created", "id", c.ID)
		s.feed.Publish()

		return c, nil
	}

	if err := s.repo.UpdateCard(ctx, c); err != nil {
		slog.ErrorContext(ctx, "failed to update card", "id", c.ID, "error", err)
		return nil, err
	}

	*existing = *c

	slog.DebugContext(ctx, "card updated", "id", c.ID)
	s.feed.Publish()

	return existing, nil
}

// Delete removes c together with all of its transactions.
func (s *Service) Delete(ctx context.Context, c *Card) error {
	if err := s.repo.DeleteCard(ctx, c.ID); err != nil {
		slog.ErrorContext(ctx, "failed to delete card", "id", c.ID, "error", err)
		return err
	}

	slog.DebugContext(ctx, "card deleted", "id", c.ID)
	s.feed.Publish()

	return nil
}

// DeleteAll removes every card and transaction in one commit.
func (s *Service) DeleteAll(ctx context.Context) error {
	if err := s.repo.DeleteAllCards(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to delete all cards", "error", err)
		return err
	}

	slog.DebugContext(ctx, "all cards deleted")
	s.feed.Publish()

	return nil
}

// ColorOf decodes the card colour, falling back to color.Default.
func (s *Service) ColorOf(c *Card) color.Color {
	return color.DecodeOrDefault(s.codec, c.Color)
}
