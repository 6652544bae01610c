package verification

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/lumabank/api/internal/domain"
)

// CodeLength is the exact length of an emailed verification code.
const CodeLength = 6

// Service issues and validates single-use, time-limited email verification
// codes. The code, its expiry, and the verified flag all live on the user
// document, so state transitions are single-item store updates.
type Service interface {
	// Issue generates a fresh code, stores it with an expiry, and emails it.
	// Issuing again overwrites any previous unconsumed code.
	Issue(ctx context.Context, userID string) error
	// Verify checks a submitted code against stored state. On success the
	// user's verified flag is set and the code is cleared in one conditional
	// update; an expired code is cleared as well, so it cannot be retried.
	Verify(ctx context.Context, userID, code string) error
}

type userStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	SetVerificationCode(ctx context.Context, userID, code string, expiresAt int64) error
	ConsumeVerificationCode(ctx context.Context, userID, code string) error
	ClearVerificationCode(ctx context.Context, userID, code string) error
}

type mailer interface {
	SendEmail(to, subject, body string) error
	Configured() bool
}

type service struct {
	repo    userStore
	mailer  mailer
	codeTTL time.Duration
}

type ServiceDeps struct {
	UserRepo userStore
	Mailer   mailer
	CodeTTL  time.Duration
}

func NewService(deps ServiceDeps) Service {
	return &service{
		repo:    deps.UserRepo,
		mailer:  deps.Mailer,
		codeTTL: deps.CodeTTL,
	}
}

func (s *service) Issue(ctx context.Context, userID string) error {
	if s.mailer == nil || !s.mailer.Configured() {
		return fmt.Errorf("mail sender credentials missing: %w", domain.ErrNotConfigured)
	}
	u, err := s.repo.Get(ctx, userID)
	if err != nil {
		return asUserLookupErr(err)
	}
	code, err := newCode()
	if err != nil {
		return err
	}
	expiresAt := time.Now().Add(s.codeTTL).Unix()
	if err := s.repo.SetVerificationCode(ctx, userID, code, expiresAt); err != nil {
		return fmt.Errorf("store verification code: %w", domain.ErrDependencyUnavailable)
	}
	// The code is already persisted at this point, so a mail failure is
	// recoverable with a resend rather than a reissue.
	if err := s.mailer.SendEmail(u.Email, "Your verification code", "Your verification code: "+code); err != nil {
		return fmt.Errorf("send verification email: %w", domain.ErrDependencyUnavailable)
	}
	return nil
}

func (s *service) Verify(ctx context.Context, userID, code string) error {
	if len(code) != CodeLength {
		return fmt.Errorf("verification code must be exactly %d digits: %w", CodeLength, domain.ErrBadRequest)
	}
	u, err := s.repo.Get(ctx, userID)
	if err != nil {
		return asUserLookupErr(err)
	}
	if !u.HasLiveCode() {
		return fmt.Errorf("request a verification code first: %w", domain.ErrNoCodeRequested)
	}
	stored := *u.VerificationCode
	if time.Now().Unix() > *u.VerificationExpiresAt {
		// An expired code must not be retryable, so it is cleared even
		// though verification failed.
		if err := s.repo.ClearVerificationCode(ctx, userID, stored); err != nil {
			slog.Warn("failed to clear expired verification code", "user_id", userID, "err", err)
		}
		return fmt.Errorf("verification code expired, request a new one: %w", domain.ErrCodeExpired)
	}
	if code != stored {
		// The stored code stays put; the user may retry until expiry.
		return fmt.Errorf("verification code does not match: %w", domain.ErrCodeMismatch)
	}
	// Conditional consume: flips verified and clears the code only if the
	// stored code is still the one we just compared against. A concurrent
	// Verify that lost the race surfaces as ErrNoCodeRequested.
	if err := s.repo.ConsumeVerificationCode(ctx, userID, stored); err != nil {
		if errors.Is(err, domain.ErrNoCodeRequested) {
			return err
		}
		return fmt.Errorf("consume verification code: %w", domain.ErrDependencyUnavailable)
	}
	return nil
}

func asUserLookupErr(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("user not found: %w", domain.ErrUserNotFound)
	}
	return fmt.Errorf("load user: %w", domain.ErrDependencyUnavailable)
}

// newCode draws a uniformly random six-digit numeric code.
func newCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
