package session

import (
	"context"
	"fmt"
	"time"

	"github.com/lumabank/api/internal/domain"
	"github.com/lumabank/api/internal/pkg/id"
	pkgtoken "github.com/lumabank/api/internal/pkg/token"
	"golang.org/x/crypto/bcrypt"
)

type Service interface {
	Login(ctx context.Context, req domain.LoginRequest) (*domain.Session, string, error)
	Refresh(ctx context.Context, refreshToken string) (*domain.Session, string, error)
	Logout(ctx context.Context, sessionID string) error
	GetCurrent(ctx context.Context, sessionID string) (*domain.Session, error)
}

type sessionStore interface {
	Put(ctx context.Context, s *domain.Session) error
	Get(ctx context.Context, sessionID string) (*domain.Session, error)
	GetByRefreshToken(ctx context.Context, token string) (*domain.Session, error)
	Update(ctx context.Context, sessionID string, updates map[string]interface{}) error
	RotateRefreshToken(ctx context.Context, sessionID, newToken string, newExpiry int64) error
}

type userStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

type tokenSigner interface {
	Sign(userID, role, sessionID string) (string, error)
}

type service struct {
	sessions      sessionStore
	users         userStore
	signer        tokenSigner
	refreshExpiry time.Duration
}

type ServiceDeps struct {
	SessionRepo   sessionStore
	UserRepo      userStore
	Signer        tokenSigner
	RefreshExpiry time.Duration
}

func NewService(deps ServiceDeps) Service {
	return &service{
		sessions:      deps.SessionRepo,
		users:         deps.UserRepo,
		signer:        deps.Signer,
		refreshExpiry: deps.RefreshExpiry,
	}
}

// Login verifies credentials and opens a new session. It returns the session
// together with a signed access token; the refresh token rides on the session.
func (s *service) Login(ctx context.Context, req domain.LoginRequest) (*domain.Session, string, error) {
	u, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		// Same message as a bad password so usernames cannot be probed.
		return nil, "", fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, "", fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
	}
	if u.Enable != 1 {
		return nil, "", fmt.Errorf("account disabled: %w", domain.ErrForbidden)
	}

	refreshToken, err := pkgtoken.NewRefreshToken()
	if err != nil {
		return nil, "", err
	}
	now := time.Now().UTC()
	sess := &domain.Session{
		SessionID:        id.New(),
		UserID:           u.UserID,
		Enable:           true,
		RefreshToken:     refreshToken,
		RefreshExpiresAt: now.Add(s.refreshExpiry).Unix(),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.sessions.Put(ctx, sess); err != nil {
		return nil, "", err
	}

	accessToken, err := s.signer.Sign(u.UserID, u.Role, sess.SessionID)
	if err != nil {
		return nil, "", err
	}
	sess.User = u
	return sess, accessToken, nil
}

// Refresh rotates the refresh token and issues a new access token. The old
// refresh token is invalid after this call.
func (s *service) Refresh(ctx context.Context, refreshToken string) (*domain.Session, string, error) {
	sess, err := s.sessions.GetByRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, "", fmt.Errorf("invalid refresh token: %w", domain.ErrUnauthorized)
	}
	if time.Now().Unix() > sess.RefreshExpiresAt {
		return nil, "", fmt.Errorf("refresh token expired: %w", domain.ErrUnauthorized)
	}
	u, err := s.users.Get(ctx, sess.UserID)
	if err != nil {
		return nil, "", fmt.Errorf("session user missing: %w", domain.ErrUnauthorized)
	}
	if u.Enable != 1 {
		return nil, "", fmt.Errorf("account disabled: %w", domain.ErrForbidden)
	}

	newToken, err := pkgtoken.NewRefreshToken()
	if err != nil {
		return nil, "", err
	}
	newExpiry := time.Now().Add(s.refreshExpiry).Unix()
	if err := s.sessions.RotateRefreshToken(ctx, sess.SessionID, newToken, newExpiry); err != nil {
		return nil, "", err
	}
	sess.RefreshToken = newToken
	sess.RefreshExpiresAt = newExpiry

	accessToken, err := s.signer.Sign(u.UserID, u.Role, sess.SessionID)
	if err != nil {
		return nil, "", err
	}
	sess.User = u
	return sess, accessToken, nil
}

func (s *service) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.Update(ctx, sessionID, map[string]interface{}{"enable": false})
}

func (s *service) GetCurrent(ctx context.Context, sessionID string) (*domain.Session, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !sess.Enable {
		return nil, fmt.Errorf("session disabled: %w", domain.ErrUnauthorized)
	}
	if u, err := s.users.Get(ctx, sess.UserID); err == nil {
		sess.User = u
	}
	return sess, nil
}
