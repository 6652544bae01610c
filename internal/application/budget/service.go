package budget

import (
	"context"
	"errors"
	"time"

	"github.com/lumabank/api/internal/domain"
)

type Service interface {
	Upsert(ctx context.Context, userID string, req domain.UpsertBudgetRequest) (*domain.Budget, error)
	List(ctx context.Context, userID string) ([]domain.Budget, error)
	Delete(ctx context.Context, userID, category string) error
}

type budgetStore interface {
	Put(ctx context.Context, b *domain.Budget) error
	Get(ctx context.Context, userID, category string) (*domain.Budget, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Budget, error)
	Delete(ctx context.Context, userID, category string) error
}

type service struct {
	repo budgetStore
}

func NewService(repo budgetStore) Service {
	return &service{repo: repo}
}

// Upsert creates or replaces the budget for a category. An existing spent
// counter survives a limit change.
func (s *service) Upsert(ctx context.Context, userID string, req domain.UpsertBudgetRequest) (*domain.Budget, error) {
	now := time.Now().UTC()
	b := &domain.Budget{
		UserID:    userID,
		Category:  req.Category,
		Limit:     req.Limit,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if existing, err := s.repo.Get(ctx, userID, req.Category); err == nil {
		b.Spent = existing.Spent
		b.CreatedAt = existing.CreatedAt
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if err := s.repo.Put(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) List(ctx context.Context, userID string) ([]domain.Budget, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) Delete(ctx context.Context, userID, category string) error {
	return s.repo.Delete(ctx, userID, category)
}
