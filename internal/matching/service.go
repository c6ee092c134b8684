package matching

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound    = errors.New("name rule not found")
	ErrInvalidRule = errors.New("pattern and name are required")
)

// Rule renames statement rows whose raw description contains Pattern,
// ignoring case.
type Rule struct {
	ID        uuid.UUID
	Pattern   string
	Name      string
	CreatedAt time.Time
}

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=matching

type Repository interface {
	FindMatch(ctx context.Context, rawDescription string) (string, error)
	CreateRule(ctx context.Context, r *Rule) error
	ListRules(ctx context.Context) ([]*Rule, error)
	DeleteRule(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Suggest returns the preferred name for rawDescription. The longest
// matching pattern wins, then the newest. It returns "" when no rule
// matches.
func (s *Service) Suggest(ctx context.Context, rawDescription string) (string, error) {
	if strings.TrimSpace(rawDescription) == "" {
		return "", nil
	}

	return s.repo.FindMatch(ctx, rawDescription)
}

// Learn remembers that descriptions containing pattern should read name.
func (s *Service) Learn(ctx context.Context, pattern, name string) (*Rule, error) {
	pattern = strings.TrimSpace(pattern)
	name = strings.TrimSpace(name)

	if pattern == "" || name == "" {
		return nil, ErrInvalidRule
	}

	r := &Rule{
		ID:        uuid.New(),
		Pattern:   pattern,
		Name:      name,
		CreatedAt: s.now().UTC(),
	}

	if err := s.repo.CreateRule(ctx, r); err != nil {
		return nil, err
	}

	return r, nil
}

// List returns every rule, newest first.
func (s *Service) List(ctx context.Context) ([]*Rule, error) {
	return s.repo.ListRules(ctx)
}

func (s *Service) Forget(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteRule(ctx, id)
}
