package card

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/lumabank/api/internal/domain"
	"github.com/lumabank/api/internal/pkg/id"
)

type Service interface {
	Issue(ctx context.Context, userID string, req domain.IssueCardRequest) (*domain.Card, error)
	List(ctx context.Context, userID string) ([]domain.Card, error)
	Update(ctx context.Context, userID, cardID string, req domain.UpdateCardRequest) (*domain.Card, error)
}

type cardStore interface {
	Put(ctx context.Context, c *domain.Card) error
	Get(ctx context.Context, cardID string) (*domain.Card, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Card, error)
	Update(ctx context.Context, cardID string, updates map[string]interface{}) error
}

type accountStore interface {
	Get(ctx context.Context, accountID string) (*domain.Account, error)
}

type userStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
}

type service struct {
	cards    cardStore
	accounts accountStore
	users    userStore
}

type ServiceDeps struct {
	CardRepo    cardStore
	AccountRepo accountStore
	UserRepo    userStore
}

func NewService(deps ServiceDeps) Service {
	return &service{cards: deps.CardRepo, accounts: deps.AccountRepo, users: deps.UserRepo}
}

// Issue attaches a new active card to one of the user's accounts. Only
// verified users with approved KYC may hold a card.
func (s *service) Issue(ctx context.Context, userID string, req domain.IssueCardRequest) (*domain.Card, error) {
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !u.Verified {
		return nil, fmt.Errorf("email must be verified before issuing a card: %w", domain.ErrForbidden)
	}
	if u.KYCStatus != domain.KYCStatusApproved {
		return nil, fmt.Errorf("identity verification must be approved before issuing a card: %w", domain.ErrForbidden)
	}
	a, err := s.accounts.Get(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}
	if a.UserID != userID {
		return nil, fmt.Errorf("account not found: %w", domain.ErrNotFound)
	}
	now := time.Now().UTC()
	c := &domain.Card{
		CardID:      id.New(),
		UserID:      userID,
		AccountID:   a.AccountID,
		MaskedPAN:   newMaskedPAN(),
		Holder:      u.FirstName + " " + u.LastName,
		ExpiryMonth: int(now.Month()),
		ExpiryYear:  now.Year() + 4,
		Status:      domain.CardStatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.cards.Put(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) List(ctx context.Context, userID string) ([]domain.Card, error) {
	return s.cards.ListByUser(ctx, userID)
}

// Update freezes/unfreezes a card or sets its monthly limit.
func (s *service) Update(ctx context.Context, userID, cardID string, req domain.UpdateCardRequest) (*domain.Card, error) {
	c, err := s.cards.Get(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if c.UserID != userID {
		return nil, fmt.Errorf("card not found: %w", domain.ErrNotFound)
	}
	updates := map[string]interface{}{}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.MonthlyLimit != nil {
		updates["monthly_limit"] = *req.MonthlyLimit
	}
	if len(updates) == 0 {
		return c, nil
	}
	if err := s.cards.Update(ctx, cardID, updates); err != nil {
		return nil, err
	}
	return s.cards.Get(ctx, cardID)
}

// newMaskedPAN fabricates the display form of a freshly issued card. The
// real PAN lives with the card processor and never enters this system.
func newMaskedPAN() string {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		panic("card suffix entropy unavailable: " + err.Error())
	}
	return fmt.Sprintf("**** **** **** %04d", n)
}
