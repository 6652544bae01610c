package account

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/lumabank/api/internal/domain"
	"github.com/lumabank/api/internal/pkg/iban"
	"github.com/lumabank/api/internal/pkg/id"
)

type Service interface {
	Open(ctx context.Context, userID string, req domain.CreateAccountRequest) (*domain.Account, error)
	Get(ctx context.Context, userID, accountID string) (*domain.Account, error)
	List(ctx context.Context, userID string) ([]domain.Account, error)
	Close(ctx context.Context, userID, accountID string) error
}

type accountStore interface {
	Put(ctx context.Context, a *domain.Account) error
	Get(ctx context.Context, accountID string) (*domain.Account, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Account, error)
	Update(ctx context.Context, accountID string, updates map[string]interface{}) error
}

type service struct {
	repo        accountStore
	bankCountry string
	bankCode    string
}

type ServiceDeps struct {
	AccountRepo accountStore
	BankCountry string
	BankCode    string
}

func NewService(deps ServiceDeps) Service {
	return &service{repo: deps.AccountRepo, bankCountry: deps.BankCountry, bankCode: deps.BankCode}
}

func (s *service) Open(ctx context.Context, userID string, req domain.CreateAccountRequest) (*domain.Account, error) {
	currency := req.Currency
	if currency == "" {
		currency = "EUR"
	}
	now := time.Now().UTC()
	a := &domain.Account{
		AccountID: id.New(),
		UserID:    userID,
		IBAN:      iban.Generate(s.bankCountry, s.bankCode, newAccountNumber()),
		Type:      req.Type,
		Currency:  currency,
		Balance:   0,
		Enable:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Put(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Get enforces ownership: an account belonging to another user surfaces as
// not found rather than forbidden, so account IDs cannot be enumerated.
func (s *service) Get(ctx context.Context, userID, accountID string) (*domain.Account, error) {
	a, err := s.repo.Get(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if a.UserID != userID {
		return nil, fmt.Errorf("account not found: %w", domain.ErrNotFound)
	}
	return a, nil
}

func (s *service) List(ctx context.Context, userID string) ([]domain.Account, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Close disables an account. The balance must be zero first.
func (s *service) Close(ctx context.Context, userID, accountID string) error {
	a, err := s.Get(ctx, userID, accountID)
	if err != nil {
		return err
	}
	if a.Balance != 0 {
		return fmt.Errorf("account balance must be zero before closing: %w", domain.ErrConflict)
	}
	return s.repo.Update(ctx, accountID, map[string]interface{}{"enable": false})
}

func newAccountNumber() string {
	max := new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		panic("account number entropy unavailable: " + err.Error())
	}
	return fmt.Sprintf("%018d", n)
}
