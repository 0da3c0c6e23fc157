package settlement

import (
	"context"

	"photomarket/internal/domain"
)

type BookingStore interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	UpdatePaymentStatus(ctx context.Context, bookingID int64, status domain.PaymentStatus) (*domain.Booking, error)
}

type TransferLedger interface {
	Create(ctx context.Context, t *domain.Transfer) error
	FindByBookingAndKind(ctx context.Context, bookingID int64, kind domain.TransferKind) (*domain.Transfer, error)
}

type UserStore interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

type PaymentProcessor interface {
	CreateTransfer(ctx context.Context, amountCents int64, destinationAccount, transferGroup string, metadata map[string]string) (string, error)
}

type NotificationQueue interface {
	Queue(ctx context.Context, userID int64, ntype domain.NotificationType, title, message string, data map[string]any, actionURL string) error
}
