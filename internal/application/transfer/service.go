package transfer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lumabank/api/internal/domain"
	"github.com/lumabank/api/internal/pkg/iban"
	"github.com/lumabank/api/internal/pkg/id"
)

type Service interface {
	Create(ctx context.Context, userID string, req domain.CreateTransferRequest) (*domain.Transfer, error)
	Get(ctx context.Context, userID, transferID string) (*domain.Transfer, error)
	List(ctx context.Context, userID string, limit int) ([]domain.Transfer, error)
}

type transferStore interface {
	Put(ctx context.Context, t *domain.Transfer) error
	Get(ctx context.Context, transferID string) (*domain.Transfer, error)
	ListByUser(ctx context.Context, userID string, limit int32) ([]domain.Transfer, error)
}

type accountStore interface {
	Get(ctx context.Context, accountID string) (*domain.Account, error)
	GetByIBAN(ctx context.Context, iban string) (*domain.Account, error)
	Move(ctx context.Context, fromID, toID string, amount int64) error
}

type budgetStore interface {
	AddSpent(ctx context.Context, userID, category string, amount int64) error
}

type notifier interface {
	Notify(ctx context.Context, userID, kind, title, body string) error
}

type smsSender interface {
	SendSMS(ctx context.Context, to, message string) error
}

type userStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
}

type service struct {
	transfers transferStore
	accounts  accountStore
	budgets   budgetStore
	notifier  notifier
	sms       smsSender
	users     userStore
}

type ServiceDeps struct {
	TransferRepo transferStore
	AccountRepo  accountStore
	BudgetRepo   budgetStore
	Notifier     notifier
	SMS          smsSender // optional, nil disables SMS alerts
	UserRepo     userStore
}

func NewService(deps ServiceDeps) Service {
	return &service{
		transfers: deps.TransferRepo,
		accounts:  deps.AccountRepo,
		budgets:   deps.BudgetRepo,
		notifier:  deps.Notifier,
		sms:       deps.SMS,
		users:     deps.UserRepo,
	}
}

// Create executes an internal transfer: the destination IBAN must resolve to
// an account in this bank. The balance move is transactional; the transfer
// record, budget counter, and notifications are written after it commits.
func (s *service) Create(ctx context.Context, userID string, req domain.CreateTransferRequest) (*domain.Transfer, error) {
	if !iban.Valid(req.ToIBAN) {
		return nil, fmt.Errorf("destination iban is invalid: %w", domain.ErrBadRequest)
	}
	from, err := s.accounts.Get(ctx, req.FromAccountID)
	if err != nil {
		return nil, err
	}
	if from.UserID != userID {
		return nil, fmt.Errorf("account not found: %w", domain.ErrNotFound)
	}
	if !from.Enable {
		return nil, fmt.Errorf("source account is closed: %w", domain.ErrConflict)
	}
	to, err := s.accounts.GetByIBAN(ctx, req.ToIBAN)
	if err != nil {
		return nil, fmt.Errorf("destination iban is not held at this bank: %w", domain.ErrNotFound)
	}
	if to.AccountID == from.AccountID {
		return nil, fmt.Errorf("cannot transfer to the same account: %w", domain.ErrBadRequest)
	}
	if to.Currency != from.Currency {
		return nil, fmt.Errorf("currency mismatch between accounts: %w", domain.ErrBadRequest)
	}

	t := &domain.Transfer{
		TransferID:    id.New(),
		UserID:        userID,
		FromAccountID: from.AccountID,
		ToIBAN:        req.ToIBAN,
		Amount:        req.Amount,
		Currency:      from.Currency,
		Category:      req.Category,
		Reference:     req.Reference,
		Status:        domain.TransferStatusCompleted,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.accounts.Move(ctx, from.AccountID, to.AccountID, req.Amount); err != nil {
		t.Status = domain.TransferStatusFailed
		if putErr := s.transfers.Put(ctx, t); putErr != nil {
			slog.Warn("failed to record failed transfer", "transfer_id", t.TransferID, "err", putErr)
		}
		return nil, err
	}
	if err := s.transfers.Put(ctx, t); err != nil {
		// The money already moved; losing the record is log-worthy but not
		// a reason to report failure to the caller.
		slog.Error("transfer completed but record write failed", "transfer_id", t.TransferID, "err", err)
	}

	if t.Category != "" {
		if err := s.budgets.AddSpent(ctx, userID, t.Category, t.Amount); err != nil {
			slog.Warn("failed to update budget spent counter", "user_id", userID, "category", t.Category, "err", err)
		}
	}
	s.notifyParties(ctx, t, from, to)
	return t, nil
}

func (s *service) notifyParties(ctx context.Context, t *domain.Transfer, from, to *domain.Account) {
	body := fmt.Sprintf("%.2f %s sent to %s", float64(t.Amount)/100, t.Currency, t.ToIBAN)
	if err := s.notifier.Notify(ctx, t.UserID, domain.NotificationTransfer, "Transfer sent", body); err != nil {
		slog.Warn("failed to notify sender", "transfer_id", t.TransferID, "err", err)
	}
	inBody := fmt.Sprintf("%.2f %s received", float64(t.Amount)/100, t.Currency)
	if err := s.notifier.Notify(ctx, to.UserID, domain.NotificationTransfer, "Transfer received", inBody); err != nil {
		slog.Warn("failed to notify recipient", "transfer_id", t.TransferID, "err", err)
	}
	if s.sms == nil {
		return
	}
	if u, err := s.users.Get(ctx, t.UserID); err == nil && u.Phone != nil && *u.Phone != "" {
		if err := s.sms.SendSMS(ctx, *u.Phone, body); err != nil {
			slog.Warn("failed to send transfer SMS", "transfer_id", t.TransferID, "err", err)
		}
	}
}

func (s *service) Get(ctx context.Context, userID, transferID string) (*domain.Transfer, error) {
	t, err := s.transfers.Get(ctx, transferID)
	if err != nil {
		return nil, err
	}
	if t.UserID != userID {
		return nil, fmt.Errorf("transfer not found: %w", domain.ErrNotFound)
	}
	return t, nil
}

func (s *service) List(ctx context.Context, userID string, limit int) ([]domain.Transfer, error) {
	if limit < 1 || limit > 100 {
		limit = 50
	}
	return s.transfers.ListByUser(ctx, userID, int32(limit))
}
