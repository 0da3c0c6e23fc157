package domain

import "time"

type BookingStatus string

const (
	BookingPending     BookingStatus = "pending"
	BookingDepositPaid BookingStatus = "acompte_paye"
	BookingConfirmed   BookingStatus = "confirmed"
	BookingFinished    BookingStatus = "finished"
	BookingCompleted   BookingStatus = "completed"
	BookingCancelled   BookingStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentUnpaid      PaymentStatus = "unpaid"
	PaymentCaptured    PaymentStatus = "paid"
	PaymentDepositPaid PaymentStatus = "deposit_paid"
	PaymentFullyPaid   PaymentStatus = "fully_paid"
	PaymentRefunded    PaymentStatus = "refunded"
)

// CancellableStatuses are the booking states a client can still cancel from.
var CancellableStatuses = []BookingStatus{
	BookingPending, BookingDepositPaid, BookingConfirmed, BookingFinished,
}

type Booking struct {
	ID            int64         `json:"id"`
	ListingID     int64         `json:"listing_id" validate:"required"`
	ClientID      int64         `json:"client_id" validate:"required"`
	PhotographeID int64         `json:"photographe_id" validate:"required"`
	ServiceDate   time.Time     `json:"service_date" validate:"required"`
	TotalAmount   float64       `json:"total_amount" validate:"required,gte=0"`
	DepositAmount float64       `json:"deposit_amount"`
	Status        BookingStatus `json:"status"`
	PaymentStatus PaymentStatus `json:"payment_status"`

	// Reference of the captured charge at the payment processor. Set once
	// the deposit has been captured, required for refunds and transfers.
	PaymentRef string `json:"payment_ref,omitempty"`

	CancellationReason string     `json:"cancellation_reason,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`

	AutoCompleted bool `json:"auto_completed,omitempty"`
	ReminderSent  bool `json:"reminder_sent,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *Booking) IsCancellable() bool {
	for _, s := range CancellableStatuses {
		if b.Status == s {
			return true
		}
	}
	return false
}

// BalanceAmount is the part of the total still owed to the photographer
// after the deposit transfer.
func (b *Booking) BalanceAmount() float64 {
	return b.TotalAmount - b.DepositAmount
}
