package admin

import (
	"context"
	"time"

	"photomarket/internal/domain"
)

type RefundStore interface {
	GetByID(ctx context.Context, id int64) (*domain.Refund, error)
	ListByStatus(ctx context.Context, status domain.RefundStatus, limit, offset int) ([]domain.Refund, error)
	MarkOverridden(ctx context.Context, id, adminID int64, note, processorRefundID string, amount float64, processedAt time.Time) error
}

type BookingStore interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	UpdatePaymentStatus(ctx context.Context, bookingID int64, status domain.PaymentStatus) (*domain.Booking, error)
}

type PaymentProcessor interface {
	CreateRefund(ctx context.Context, paymentRef string, amountCents int64, metadata map[string]string) (string, error)
}

type NotificationQueue interface {
	Queue(ctx context.Context, userID int64, ntype domain.NotificationType, title, message string, data map[string]any, actionURL string) error
}
