package domain

import "time"

type NotificationType string

const (
	NotifBookingCancelled NotificationType = "booking_cancelled"
	NotifBookingCompleted NotificationType = "booking_completed"
	NotifBookingReminder  NotificationType = "booking_reminder"
	NotifOrderConfirmed   NotificationType = "order_confirmed"
	NotifRefundProcessed  NotificationType = "refund_processed"
	NotifRefundReview     NotificationType = "refund_under_review"
	NotifReviewRequest    NotificationType = "review_request"
	NotifTransferSent     NotificationType = "transfer_sent"
)

// Notification is an outbox row: created as a side effect of a core
// mutation, later drained by the dispatcher. The core never reads these.
type Notification struct {
	ID        int64            `json:"id"`
	UserID    int64            `json:"user_id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message,omitempty"`
	Data      any              `json:"data,omitempty" gorm:"serializer:json"`
	ActionURL string           `json:"action_url,omitempty"`
	IsRead    bool             `json:"is_read"`
	Sent      bool             `json:"-"`
	SentAt    *time.Time       `json:"-"`
	CreatedAt time.Time        `json:"created_at"`
}
