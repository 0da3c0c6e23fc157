package cancellation

import (
	"context"
	"time"

	"photomarket/internal/domain"
)

// BookingStore is the slice of the booking repository the orchestrator
// needs. ResolveOwned hides the legacy owner-column lookup.
type BookingStore interface {
	ResolveOwned(ctx context.Context, bookingID, userID int64) (*domain.Booking, string, error)
	CancelWithRefund(ctx context.Context, bookingID int64, reason string, cancelledAt time.Time, refund *domain.Refund) error
	UpdatePaymentStatus(ctx context.Context, bookingID int64, status domain.PaymentStatus) (*domain.Booking, error)
}

type RefundStore interface {
	Create(ctx context.Context, r *domain.Refund) error
	GetByBookingID(ctx context.Context, bookingID int64) (*domain.Refund, error)
	MarkProcessed(ctx context.Context, id int64, processorRefundID string, processedAt time.Time) error
}

type ListingStore interface {
	GetByID(ctx context.Context, id int64) (*domain.Listing, error)
}

type PaymentProcessor interface {
	CreateRefund(ctx context.Context, paymentRef string, amountCents int64, metadata map[string]string) (string, error)
}

// NotificationQueue appends to the outbox; dispatch happens elsewhere and
// failures here never roll back the cancellation.
type NotificationQueue interface {
	Queue(ctx context.Context, userID int64, ntype domain.NotificationType, title, message string, data map[string]any, actionURL string) error
}
