package domain

import "time"

type RefundStatus string

const (
	RefundPending     RefundStatus = "pending"
	RefundAdminReview RefundStatus = "pending_admin_review"
	RefundProcessed   RefundStatus = "processed"
	RefundNone        RefundStatus = "no_refund"
	RefundRejected    RefundStatus = "rejected"
)

// Refund records the outcome of a cancellation for a paid booking. At most
// one exists per booking (unique index on booking_id).
type Refund struct {
	ID             int64        `json:"id"`
	BookingID      int64        `json:"booking_id"`
	OriginalAmount float64      `json:"original_amount"`
	RefundedAmount float64      `json:"refunded_amount"`
	Percentage     int          `json:"percentage"`
	Status         RefundStatus `json:"status"`

	// Snapshot of the listing policy at cancellation time; the admin
	// override path only applies to Strict refunds.
	Policy string `json:"policy"`
	Reason string `json:"reason,omitempty"`

	ProcessorRefundID string     `json:"processor_refund_id,omitempty"`
	AdminID           *int64     `json:"admin_id,omitempty"`
	AdminNote         string     `json:"admin_note,omitempty"`
	ProcessedAt       *time.Time `json:"processed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
