package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/spendingtracker/internal/transaction"
)

// BatchCreator stores parsed rows on a card in one commit.
type BatchCreator interface {
	CreateBatch(ctx context.Context, cardID uuid.UUID, params []transaction.CreateParams) ([]*transaction.Transaction, error)
}

// NameSuggester maps a raw statement description to a preferred name.
// An empty result keeps the raw description.
type NameSuggester interface {
	Suggest(ctx context.Context, rawDescription string) (string, error)
}

type Service struct {
	parser *Parser
	txs    BatchCreator
	names  NameSuggester
}

type Option func(*Service)

// WithNameRules renames imported rows using names.
func WithNameRules(names NameSuggester) Option {
	return func(s *Service) { s.names = names }
}

func NewService(txs BatchCreator, opts ...Option) *Service {
	s := &Service{
		parser: NewParser(),
		txs:    txs,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Import parses a statement and adds every row to the card. Nothing is
// stored when parsing fails.
func (s *Service) Import(ctx context.Context, cardID uuid.UUID, r io.Reader) ([]*transaction.Transaction, error) {
	params, err := s.parser.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse statement: %w", err)
	}

	if err := s.rename(ctx, params); err != nil {
		return nil, err
	}

	txs, err := s.txs.CreateBatch(ctx, cardID, params)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "statement imported", "card_id", cardID, "count", len(txs))

	return txs, nil
}

func (s *Service) rename(ctx context.Context, params []transaction.CreateParams) error {
	if s.names == nil {
		return nil
	}

	renamed := 0

	for i := range params {
		name, err := s.names.Suggest(ctx, params[i].Name)
		if err != nil {
			return fmt.Errorf("suggest name for %q: %w", params[i].Name, err)
		}

		if name != "" && name != params[i].Name {
			params[i].Name = name
			renamed++
		}
	}

	slog.DebugContext(ctx, "applied name rules", "rows", len(params), "renamed", renamed)

	return nil
}
