package admin

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"photomarket/internal/domain"
	"photomarket/internal/gateway"
	"photomarket/internal/repository"
)

type Service struct {
	refunds  RefundStore
	bookings BookingStore
	payments PaymentProcessor
	notifs   NotificationQueue
	logger   *zap.Logger
	now      func() time.Time
}

func NewService(refunds RefundStore, bookings BookingStore, payments PaymentProcessor, notifs NotificationQueue, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		refunds:  refunds,
		bookings: bookings,
		payments: payments,
		notifs:   notifs,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// PendingReview lists refunds blocked on an admin decision.
func (s *Service) PendingReview(ctx context.Context, limit, offset int) ([]domain.Refund, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.refunds.ListByStatus(ctx, domain.RefundAdminReview, limit, offset)
}

// defaultOverrideNote is stamped on the refund when the admin gives no
// note of their own, so every overridden row carries the audit trail.
const defaultOverrideNote = "force majeure"

// ForceMajeureRefund overrides a Strict-policy refund to 100%. Only rows
// that have not been processed yet qualify; Flexible and Modéré refunds
// were already settled by their own schedule and cannot be overridden.
func (s *Service) ForceMajeureRefund(ctx context.Context, refundID, adminID int64, note string) (*domain.Refund, error) {
	if note = strings.TrimSpace(note); note == "" {
		note = defaultOverrideNote
	}
	refund, err := s.refunds.GetByID(ctx, refundID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load refund: %w", err)
	}

	if refund.Policy != "Strict" {
		return nil, fmt.Errorf("%w: policy is %s", ErrNotStrictPolicy, refund.Policy)
	}
	if refund.Status == domain.RefundProcessed {
		return nil, ErrRefundProcessed
	}

	booking, err := s.bookings.GetByID(ctx, refund.BookingID)
	if err != nil {
		return nil, fmt.Errorf("load booking %d: %w", refund.BookingID, err)
	}

	processorID, err := s.payments.CreateRefund(ctx, booking.PaymentRef, gateway.Cents(refund.OriginalAmount), map[string]string{
		"booking_id": strconv.FormatInt(booking.ID, 10),
		"reason":     "force_majeure",
		"admin_id":   strconv.FormatInt(adminID, 10),
	})
	if err != nil {
		s.logger.Error("force-majeure refund failed at processor",
			zap.Int64("refund_id", refundID),
			zap.Int64("admin_id", adminID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	if err := s.refunds.MarkOverridden(ctx, refundID, adminID, note, processorID, refund.OriginalAmount, s.now()); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// A concurrent decision won; the processor-side idempotency
			// on the payment ref is the safety net for the double call.
			return nil, ErrRefundProcessed
		}
		return nil, fmt.Errorf("record override: %w", err)
	}
	if _, err := s.bookings.UpdatePaymentStatus(ctx, booking.ID, domain.PaymentRefunded); err != nil {
		s.logger.Error("failed to flag booking refunded",
			zap.Int64("booking_id", booking.ID), zap.Error(err))
	}

	s.logger.Info("force-majeure override applied",
		zap.Int64("refund_id", refundID),
		zap.Int64("booking_id", booking.ID),
		zap.Int64("admin_id", adminID),
	)
	_ = s.notifs.Queue(ctx, booking.ClientID, domain.NotifRefundProcessed,
		"Remboursement intégral accordé",
		fmt.Sprintf("Following review of your request, booking #%d has been refunded in full (%.2f €).", booking.ID, refund.OriginalAmount),
		map[string]any{"booking_id": booking.ID, "refund_id": refundID},
		fmt.Sprintf("/bookings/%d", booking.ID),
	)

	return s.refunds.GetByID(ctx, refundID)
}
