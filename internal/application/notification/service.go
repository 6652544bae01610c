package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/lumabank/api/internal/domain"
	"github.com/lumabank/api/internal/pkg/id"
)

type Service interface {
	// Notify records an in-app notification for the user.
	Notify(ctx context.Context, userID, kind, title, body string) error
	ListUnread(ctx context.Context, userID string) ([]domain.Notification, error)
	MarkAsRead(ctx context.Context, userID, notificationID string) error
}

type notificationStore interface {
	Put(ctx context.Context, n *domain.Notification) error
	Get(ctx context.Context, notificationID string) (*domain.Notification, error)
	ListUnread(ctx context.Context, userID string) ([]domain.Notification, error)
	MarkAsRead(ctx context.Context, notificationID string) error
}

type service struct {
	repo notificationStore
}

func NewService(repo notificationStore) Service {
	return &service{repo: repo}
}

func (s *service) Notify(ctx context.Context, userID, kind, title, body string) error {
	return s.repo.Put(ctx, &domain.Notification{
		NotificationID: id.New(),
		UserID:         userID,
		Type:           kind,
		Title:          title,
		Body:           body,
		Readed:         false,
		CreatedAt:      time.Now().UTC(),
	})
}

func (s *service) ListUnread(ctx context.Context, userID string) ([]domain.Notification, error) {
	return s.repo.ListUnread(ctx, userID)
}

// MarkAsRead checks ownership before flipping the flag.
func (s *service) MarkAsRead(ctx context.Context, userID, notificationID string) error {
	n, err := s.repo.Get(ctx, notificationID)
	if err != nil {
		return err
	}
	if n.UserID != userID {
		return fmt.Errorf("notification not found: %w", domain.ErrNotFound)
	}
	return s.repo.MarkAsRead(ctx, notificationID)
}
