package kyc

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/lumabank/api/internal/domain"
	"github.com/lumabank/api/internal/pkg/id"
)

// presignTTL bounds how long an admin review link stays fetchable.
const presignTTL = 15 * time.Minute

type Service interface {
	// Submit stores the document image and queues it for review. The user's
	// kyc status moves to pending.
	Submit(ctx context.Context, userID string, req domain.SubmitKYCRequest) (*domain.KYCDocument, error)
	ListMine(ctx context.Context, userID string) ([]domain.KYCDocument, error)

	// Admin review queue.
	ListPending(ctx context.Context) ([]domain.KYCDocument, error)
	DocumentURL(ctx context.Context, documentID string) (string, error)
	Approve(ctx context.Context, reviewerID, documentID string) (*domain.KYCDocument, error)
	Reject(ctx context.Context, reviewerID, documentID, note string) (*domain.KYCDocument, error)
}

type documentStore interface {
	Put(ctx context.Context, d *domain.KYCDocument) error
	Get(ctx context.Context, documentID string) (*domain.KYCDocument, error)
	ListByUser(ctx context.Context, userID string) ([]domain.KYCDocument, error)
	ListByStatus(ctx context.Context, status string) ([]domain.KYCDocument, error)
	Update(ctx context.Context, documentID string, updates map[string]interface{}) error
}

type userStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
}

type objectStore interface {
	UploadBase64(ctx context.Context, key, b64Data string) (string, error)
	PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}

type notifier interface {
	Notify(ctx context.Context, userID, kind, title, body string) error
}

type service struct {
	documents documentStore
	users     userStore
	objects   objectStore
	notifier  notifier
}

type ServiceDeps struct {
	DocumentRepo documentStore
	UserRepo     userStore
	ObjectStore  objectStore
	Notifier     notifier
}

func NewService(deps ServiceDeps) Service {
	return &service{
		documents: deps.DocumentRepo,
		users:     deps.UserRepo,
		objects:   deps.ObjectStore,
		notifier:  deps.Notifier,
	}
}

func (s *service) Submit(ctx context.Context, userID string, req domain.SubmitKYCRequest) (*domain.KYCDocument, error) {
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !u.Verified {
		return nil, fmt.Errorf("email must be verified before submitting identity documents: %w", domain.ErrForbidden)
	}
	if u.KYCStatus == domain.KYCStatusApproved {
		return nil, fmt.Errorf("identity already approved: %w", domain.ErrConflict)
	}

	docID := id.New()
	key := fmt.Sprintf("kyc/%s/%s-%s", userID, docID, sanitizeFilename(req.Filename))
	if _, err := s.objects.UploadBase64(ctx, key, req.Data); err != nil {
		return nil, fmt.Errorf("store document: %w", err)
	}

	d := &domain.KYCDocument{
		DocumentID: docID,
		UserID:     userID,
		Type:       req.Type,
		ObjectKey:  key,
		Status:     domain.KYCStatusPending,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.documents.Put(ctx, d); err != nil {
		return nil, err
	}
	if err := s.users.Update(ctx, userID, map[string]interface{}{"kyc_status": domain.KYCStatusPending}); err != nil {
		return nil, err
	}
	s.cleanupRejected(ctx, userID, docID)
	return d, nil
}

// cleanupRejected removes the stored images of earlier rejected submissions
// once a replacement document is on file. Best effort: the metadata rows stay
// for the review trail, only the objects go.
func (s *service) cleanupRejected(ctx context.Context, userID, newDocID string) {
	docs, err := s.documents.ListByUser(ctx, userID)
	if err != nil {
		slog.Warn("failed to list documents for cleanup", "user_id", userID, "err", err)
		return
	}
	for _, old := range docs {
		if old.DocumentID == newDocID || old.Status != domain.KYCStatusRejected || old.ObjectKey == "" {
			continue
		}
		if err := s.objects.Delete(ctx, old.ObjectKey); err != nil {
			slog.Warn("failed to delete rejected document object", "document_id", old.DocumentID, "err", err)
			continue
		}
		if err := s.documents.Update(ctx, old.DocumentID, map[string]interface{}{"object_key": ""}); err != nil {
			slog.Warn("failed to clear object key", "document_id", old.DocumentID, "err", err)
		}
	}
}

func (s *service) ListMine(ctx context.Context, userID string) ([]domain.KYCDocument, error) {
	return s.documents.ListByUser(ctx, userID)
}

func (s *service) ListPending(ctx context.Context) ([]domain.KYCDocument, error) {
	return s.documents.ListByStatus(ctx, domain.KYCStatusPending)
}

// DocumentURL returns a short-lived presigned link to the stored image.
func (s *service) DocumentURL(ctx context.Context, documentID string) (string, error) {
	d, err := s.documents.Get(ctx, documentID)
	if err != nil {
		return "", err
	}
	return s.objects.PresignedURL(ctx, d.ObjectKey, presignTTL)
}

func (s *service) Approve(ctx context.Context, reviewerID, documentID string) (*domain.KYCDocument, error) {
	return s.review(ctx, reviewerID, documentID, domain.KYCStatusApproved, "")
}

func (s *service) Reject(ctx context.Context, reviewerID, documentID, note string) (*domain.KYCDocument, error) {
	return s.review(ctx, reviewerID, documentID, domain.KYCStatusRejected, note)
}

func (s *service) review(ctx context.Context, reviewerID, documentID, verdict, note string) (*domain.KYCDocument, error) {
	d, err := s.documents.Get(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if d.Status != domain.KYCStatusPending {
		return nil, fmt.Errorf("document already reviewed: %w", domain.ErrConflict)
	}
	now := time.Now().UTC()
	updates := map[string]interface{}{
		"status":      verdict,
		"reviewed_by": reviewerID,
		"reviewed_at": now.Format(time.RFC3339),
	}
	if note != "" {
		updates["note"] = note
	}
	if err := s.documents.Update(ctx, documentID, updates); err != nil {
		return nil, err
	}
	if err := s.users.Update(ctx, d.UserID, map[string]interface{}{"kyc_status": verdict}); err != nil {
		return nil, err
	}

	title, body := "Identity approved", "Your identity document was approved."
	if verdict == domain.KYCStatusRejected {
		title, body = "Identity rejected", "Your identity document was rejected."
		if note != "" {
			body += " Reviewer note: " + note
		}
	}
	if err := s.notifier.Notify(ctx, d.UserID, domain.NotificationKYC, title, body); err != nil {
		slog.Warn("failed to send kyc review notification", "document_id", documentID, "err", err)
	}

	d.Status = verdict
	d.Note = note
	d.ReviewedBy = reviewerID
	d.ReviewedAt = &now
	return d, nil
}

// sanitizeFilename keeps the base name and strips characters that have no
// business in an object key.
func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
