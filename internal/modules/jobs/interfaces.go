package jobs

import (
	"context"
	"time"

	"photomarket/internal/domain"
)

type OrderStore interface {
	FindPaidBefore(ctx context.Context, cutoff time.Time) ([]domain.Order, error)
	Confirm(ctx context.Context, orderID int64, at time.Time) error
	EnsureDelivery(ctx context.Context, orderID int64) error
}

type BookingStore interface {
	FindActivePastService(ctx context.Context, before time.Time) ([]domain.Booking, error)
	MarkCompleted(ctx context.Context, bookingID int64, auto bool) error
	FindCompletedDepositPaid(ctx context.Context) ([]domain.Booking, error)
	FindForReminder(ctx context.Context, from, to time.Time) ([]domain.Booking, error)
	MarkReminderSent(ctx context.Context, bookingID int64) error
}

// Settlement is the slice of the settlement service the balance sweep needs.
type Settlement interface {
	TransferBalance(ctx context.Context, bookingID int64, destinationAccount string) (*domain.Transfer, error)
}

type NotificationQueue interface {
	Queue(ctx context.Context, userID int64, ntype domain.NotificationType, title, message string, data map[string]any, actionURL string) error
}
