package cancellation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"photomarket/internal/domain"
	"photomarket/internal/gateway"
	"photomarket/internal/modules/policy"
	"photomarket/internal/repository"
)

type Service struct {
	bookings BookingStore
	refunds  RefundStore
	listings ListingStore
	payments PaymentProcessor
	notifs   NotificationQueue
	logger   *zap.Logger
}

func NewService(bookings BookingStore, refunds RefundStore, listings ListingStore, payments PaymentProcessor, notifs NotificationQueue, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		bookings: bookings,
		refunds:  refunds,
		listings: listings,
		payments: payments,
		notifs:   notifs,
		logger:   logger,
	}
}

// RequestCancellation cancels a booking on behalf of its owning client and
// produces its refund according to the listing's cancellation policy.
// Calling it again for an already-cancelled booking returns the existing
// refund instead of erroring, and re-drives any step that previously
// failed (missing refund row, unprocessed eligible refund).
func (s *Service) RequestCancellation(ctx context.Context, bookingID, userID int64, reason string) (*Result, error) {
	reason = strings.TrimSpace(reason)

	b, matchedColumn, err := s.bookings.ResolveOwned(ctx, bookingID, userID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, ErrNotFound
	case errors.Is(err, repository.ErrNotOwner):
		return nil, ErrForbidden
	case err != nil:
		return nil, fmt.Errorf("resolve booking: %w", err)
	}
	s.logger.Debug("booking ownership resolved",
		zap.Int64("booking_id", bookingID),
		zap.String("matched_column", matchedColumn),
	)

	if b.Status == domain.BookingCancelled {
		return s.resumeCancelled(ctx, b)
	}
	if !b.IsCancellable() {
		return nil, ErrNotCancellable
	}

	outcome, refund, err := s.evaluate(ctx, b, reason, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	err = s.bookings.CancelWithRefund(ctx, b.ID, reason, now, refund)
	switch {
	case errors.Is(err, repository.ErrAlreadyCancelled), errors.Is(err, repository.ErrDuplicateRefund):
		// Lost the race against a concurrent cancellation: hand back the
		// state the winner produced.
		b.Status = domain.BookingCancelled
		return s.resumeCancelled(ctx, b)
	case err != nil:
		return nil, fmt.Errorf("cancel booking: %w", err)
	}

	s.logger.Info("booking cancelled",
		zap.Int64("booking_id", b.ID),
		zap.String("policy", refund.Policy),
		zap.Int("percentage", refund.Percentage),
		zap.String("refund_status", string(refund.Status)),
	)
	s.queueCancellationNotifs(ctx, b, refund, outcome)

	result := &Result{Refund: refund, Outcome: outcome}
	if refund.Status == domain.RefundPending && refund.RefundedAmount > 0 {
		if err := s.processRefund(ctx, b, refund); err != nil {
			// The booking is cancelled and the refund row persisted; the
			// processor call alone failed. Surface it, a retry of this
			// request picks the refund back up.
			return result, err
		}
	}
	return result, nil
}

// evaluate loads the listing policy and builds the refund row the
// cancellation will create.
func (s *Service) evaluate(ctx context.Context, b *domain.Booking, reason string, at time.Time) (policy.Result, *domain.Refund, error) {
	listing, err := s.listings.GetByID(ctx, b.ListingID)
	if err != nil {
		return policy.Result{}, nil, fmt.Errorf("load listing %d: %w", b.ListingID, err)
	}

	until := b.ServiceDate.Sub(at)
	hours := until.Hours()
	days := hours / 24

	outcome := policy.Evaluate(policy.Kind(listing.CancellationPolicy), hours, days, reason)

	refund := &domain.Refund{
		BookingID:      b.ID,
		OriginalAmount: b.TotalAmount,
		Percentage:     outcome.Percentage,
		Status:         domain.RefundNone,
		Policy:         listing.CancellationPolicy,
		Reason:         reason,
	}

	// No money was captured for an unpaid booking, nothing to return.
	if b.PaymentStatus != domain.PaymentUnpaid {
		switch {
		case outcome.RequiresReview:
			refund.Status = domain.RefundAdminReview
		case outcome.Eligible && outcome.Percentage > 0:
			refund.Status = domain.RefundPending
			refund.RefundedAmount = refundAmount(b.TotalAmount, outcome.Percentage)
		}
	}
	return outcome, refund, nil
}

// resumeCancelled is the idempotent path: return the existing refund, and
// self-heal the two partial-failure shapes (refund row missing after the
// status flip, or an eligible refund never reaching the processor).
func (s *Service) resumeCancelled(ctx context.Context, b *domain.Booking) (*Result, error) {
	refund, err := s.refunds.GetByBookingID(ctx, b.ID)
	if errors.Is(err, repository.ErrNotFound) {
		at := time.Now().UTC()
		if b.CancelledAt != nil {
			at = *b.CancelledAt
		}
		_, rebuilt, err := s.evaluate(ctx, b, b.CancellationReason, at)
		if err != nil {
			return nil, err
		}
		if err := s.refunds.Create(ctx, rebuilt); err != nil {
			if !errors.Is(err, repository.ErrDuplicateRefund) {
				return nil, fmt.Errorf("recreate refund: %w", err)
			}
			// Another retry got there first.
			if rebuilt, err = s.refunds.GetByBookingID(ctx, b.ID); err != nil {
				return nil, fmt.Errorf("load refund: %w", err)
			}
		}
		s.logger.Warn("recreated missing refund for cancelled booking", zap.Int64("booking_id", b.ID))
		refund = rebuilt
	} else if err != nil {
		return nil, fmt.Errorf("load refund: %w", err)
	}

	result := &Result{
		Refund:           refund,
		Outcome:          outcomeFromRefund(refund),
		AlreadyCancelled: true,
	}
	if refund.Status == domain.RefundPending && refund.RefundedAmount > 0 {
		if err := s.processRefund(ctx, b, refund); err != nil {
			return result, err
		}
	}
	return result, nil
}

// processRefund moves the money back through the processor and marks the
// row processed.
func (s *Service) processRefund(ctx context.Context, b *domain.Booking, refund *domain.Refund) error {
	if b.PaymentRef == "" {
		s.logger.Warn("refund pending but booking has no payment reference", zap.Int64("booking_id", b.ID))
		return nil
	}

	processorID, err := s.payments.CreateRefund(ctx, b.PaymentRef, gateway.Cents(refund.RefundedAmount), map[string]string{
		"booking_id": strconv.FormatInt(b.ID, 10),
		"refund_id":  strconv.FormatInt(refund.ID, 10),
	})
	if err != nil {
		s.logger.Error("processor refund failed", zap.Int64("booking_id", b.ID), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	now := time.Now().UTC()
	if err := s.refunds.MarkProcessed(ctx, refund.ID, processorID, now); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Row already left pending state, a concurrent retry finished
			// the job.
			return nil
		}
		return fmt.Errorf("mark refund processed: %w", err)
	}
	refund.Status = domain.RefundProcessed
	refund.ProcessorRefundID = processorID
	refund.ProcessedAt = &now

	if _, err := s.bookings.UpdatePaymentStatus(ctx, b.ID, domain.PaymentRefunded); err != nil {
		s.logger.Error("failed to flip booking payment status to refunded",
			zap.Int64("booking_id", b.ID), zap.Error(err))
	}

	_ = s.notifs.Queue(ctx, b.ClientID, domain.NotifRefundProcessed,
		"Remboursement effectué",
		fmt.Sprintf("Your refund of %.2f € for booking #%d has been processed.", refund.RefundedAmount, b.ID),
		map[string]any{"booking_id": b.ID, "refund_id": refund.ID},
		fmt.Sprintf("/bookings/%d", b.ID),
	)
	return nil
}

func (s *Service) queueCancellationNotifs(ctx context.Context, b *domain.Booking, refund *domain.Refund, outcome policy.Result) {
	data := map[string]any{"booking_id": b.ID, "refund_id": refund.ID}
	url := fmt.Sprintf("/bookings/%d", b.ID)

	clientMsg := fmt.Sprintf("Your booking #%d has been cancelled.", b.ID)
	switch {
	case outcome.RequiresReview:
		clientMsg += " Your cancellation reason is under review by our team."
	case refund.RefundedAmount > 0:
		clientMsg += fmt.Sprintf(" A refund of %.2f € (%d%%) is on its way.", refund.RefundedAmount, refund.Percentage)
	default:
		clientMsg += " The cancellation policy does not allow a refund at this date."
	}

	_ = s.notifs.Queue(ctx, b.ClientID, domain.NotifBookingCancelled,
		"Réservation annulée", clientMsg, data, url)
	_ = s.notifs.Queue(ctx, b.PhotographeID, domain.NotifBookingCancelled,
		"Réservation annulée",
		fmt.Sprintf("Booking #%d was cancelled by the client.", b.ID), data, url)

	if outcome.RequiresReview {
		_ = s.notifs.Queue(ctx, b.ClientID, domain.NotifRefundReview,
			"Demande en cours d'examen",
			fmt.Sprintf("Your refund request for booking #%d awaits a manual decision.", b.ID),
			data, url)
	}
}

func outcomeFromRefund(r *domain.Refund) policy.Result {
	return policy.Result{
		Eligible:       r.Status != domain.RefundNone && r.Status != domain.RefundRejected,
		Percentage:     r.Percentage,
		RequiresReview: r.Status == domain.RefundAdminReview,
	}
}

func refundAmount(original float64, percentage int) float64 {
	return math.Round(original*float64(percentage)) / 100
}
