package notification

import (
	"context"
	"time"

	"photomarket/internal/domain"
)

type Store interface {
	Create(ctx context.Context, n *domain.Notification) error
	ListByUser(ctx context.Context, userID int64, limit int) ([]domain.Notification, int64, error)
	MarkRead(ctx context.Context, id, userID int64) error
	MarkAllRead(ctx context.Context, userID int64) error
	FindUnsent(ctx context.Context, limit int) ([]domain.Notification, error)
	MarkSent(ctx context.Context, id int64, at time.Time) error
}

// Service writes and reads the notification outbox. Core modules only
// call Queue; delivery to the broker and websocket clients is the
// dispatcher's job.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Queue appends an outbox row. Failures are the caller's to ignore or
// log; a notification must never abort the mutation that produced it.
func (s *Service) Queue(ctx context.Context, userID int64, ntype domain.NotificationType, title, message string, data map[string]any, actionURL string) error {
	return s.store.Create(ctx, &domain.Notification{
		UserID:    userID,
		Type:      ntype,
		Title:     title,
		Message:   message,
		Data:      data,
		ActionURL: actionURL,
	})
}

func (s *Service) ListForUser(ctx context.Context, userID int64, limit int) ([]domain.Notification, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.store.ListByUser(ctx, userID, limit)
}

func (s *Service) MarkRead(ctx context.Context, id, userID int64) error {
	return s.store.MarkRead(ctx, id, userID)
}

func (s *Service) MarkAllRead(ctx context.Context, userID int64) error {
	return s.store.MarkAllRead(ctx, userID)
}
