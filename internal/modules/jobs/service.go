package jobs

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"photomarket/internal/domain"
)

const (
	// Orders stay cancellable by the photographer for a day after payment
	// before the sweep force-confirms them.
	autoConfirmAfter = 24 * time.Hour

	// Bookings get a day after the service date before the sweep closes
	// them, leaving room for the parties to report a no-show or dispute.
	autoCompleteAfter = 24 * time.Hour
)

type Service struct {
	orders     OrderStore
	bookings   BookingStore
	settlement Settlement
	notifs     NotificationQueue
	logger     *zap.Logger
	now        func() time.Time
}

func NewService(orders OrderStore, bookings BookingStore, settlement Settlement, notifs NotificationQueue, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		orders:     orders,
		bookings:   bookings,
		settlement: settlement,
		notifs:     notifs,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// AutoConfirmOrders confirms every order that has been sitting in paid
// status for more than 24 hours and makes sure its delivery record exists.
func (s *Service) AutoConfirmOrders(ctx context.Context) (*Result, error) {
	cutoff := s.now().Add(-autoConfirmAfter)
	orders, err := s.orders.FindPaidBefore(ctx, cutoff)
	if err != nil {
		return nil, fmt.Errorf("list stale paid orders: %w", err)
	}

	res := &Result{}
	for _, o := range orders {
		res.Processed++
		if err := s.confirmOrder(ctx, o); err != nil {
			s.logger.Warn("auto-confirm failed",
				zap.Int64("order_id", o.ID), zap.Error(err))
			res.fail(o.ID, err)
			continue
		}
		res.Succeeded++
	}

	s.logSweep("auto_confirm_orders", res)
	return res, nil
}

func (s *Service) confirmOrder(ctx context.Context, o domain.Order) error {
	if err := s.orders.Confirm(ctx, o.ID, s.now()); err != nil {
		return fmt.Errorf("confirm: %w", err)
	}
	if err := s.orders.EnsureDelivery(ctx, o.ID); err != nil {
		return fmt.Errorf("ensure delivery: %w", err)
	}

	_ = s.notifs.Queue(ctx, o.ClientID, domain.NotifOrderConfirmed,
		"Commande confirmée",
		fmt.Sprintf("Your order #%d has been confirmed automatically. Delivery is being prepared.", o.ID),
		map[string]any{"order_id": o.ID},
		fmt.Sprintf("/orders/%d", o.ID),
	)
	_ = s.notifs.Queue(ctx, o.PhotographeID, domain.NotifOrderConfirmed,
		"Commande confirmée",
		fmt.Sprintf("Order #%d has been confirmed. Please prepare the delivery.", o.ID),
		map[string]any{"order_id": o.ID},
		fmt.Sprintf("/orders/%d", o.ID),
	)
	return nil
}

// AutoCompleteBookings closes paid bookings whose service date is more
// than a day in the past, asking the client for a review on the way out.
func (s *Service) AutoCompleteBookings(ctx context.Context) (*Result, error) {
	bookings, err := s.bookings.FindActivePastService(ctx, s.now().Add(-autoCompleteAfter))
	if err != nil {
		return nil, fmt.Errorf("list past-service bookings: %w", err)
	}

	res := &Result{}
	for _, b := range bookings {
		res.Processed++
		if err := s.bookings.MarkCompleted(ctx, b.ID, true); err != nil {
			s.logger.Warn("auto-complete failed",
				zap.Int64("booking_id", b.ID), zap.Error(err))
			res.fail(b.ID, err)
			continue
		}
		res.Succeeded++

		_ = s.notifs.Queue(ctx, b.ClientID, domain.NotifReviewRequest,
			"Comment était votre séance ?",
			fmt.Sprintf("Your session for booking #%d is complete. Leave a review for your photographer.", b.ID),
			map[string]any{"booking_id": b.ID},
			fmt.Sprintf("/bookings/%d/review", b.ID),
		)
		_ = s.notifs.Queue(ctx, b.PhotographeID, domain.NotifBookingCompleted,
			"Réservation terminée",
			fmt.Sprintf("Booking #%d has been marked completed.", b.ID),
			map[string]any{"booking_id": b.ID},
			fmt.Sprintf("/bookings/%d", b.ID),
		)
	}

	s.logSweep("auto_complete_bookings", res)
	return res, nil
}

// AutoTransferBalances pays out the remaining balance for every completed
// booking whose deposit has already been transferred. Delegating to the
// settlement service keeps the ledger de-duplication in one place.
func (s *Service) AutoTransferBalances(ctx context.Context) (*Result, error) {
	bookings, err := s.bookings.FindCompletedDepositPaid(ctx)
	if err != nil {
		return nil, fmt.Errorf("list balance-due bookings: %w", err)
	}

	res := &Result{}
	for _, b := range bookings {
		res.Processed++
		if _, err := s.settlement.TransferBalance(ctx, b.ID, ""); err != nil {
			s.logger.Warn("auto balance transfer failed",
				zap.Int64("booking_id", b.ID), zap.Error(err))
			res.fail(b.ID, err)
			continue
		}
		res.Succeeded++
	}

	s.logSweep("auto_transfer_balances", res)
	return res, nil
}

// SendReminders notifies both parties of bookings happening tomorrow.
// A booking is reminded once: the sent flag is flipped inside the loop so a
// failed notification keeps the row eligible for the next run.
func (s *Service) SendReminders(ctx context.Context) (*Result, error) {
	from := s.now().Add(24 * time.Hour)
	to := from.Add(24 * time.Hour)

	bookings, err := s.bookings.FindForReminder(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("list reminder-due bookings: %w", err)
	}

	res := &Result{}
	for _, b := range bookings {
		res.Processed++
		when := b.ServiceDate.Format("02/01/2006 15:04")

		if err := s.notifs.Queue(ctx, b.ClientID, domain.NotifBookingReminder,
			"Rappel de votre séance",
			fmt.Sprintf("Your photo session is tomorrow, %s.", when),
			map[string]any{"booking_id": b.ID},
			fmt.Sprintf("/bookings/%d", b.ID),
		); err != nil {
			res.fail(b.ID, err)
			continue
		}
		_ = s.notifs.Queue(ctx, b.PhotographeID, domain.NotifBookingReminder,
			"Rappel de séance",
			fmt.Sprintf("You have a session tomorrow, %s (booking #%d).", when, b.ID),
			map[string]any{"booking_id": b.ID},
			fmt.Sprintf("/bookings/%d", b.ID),
		)

		if err := s.bookings.MarkReminderSent(ctx, b.ID); err != nil {
			res.fail(b.ID, err)
			continue
		}
		res.Succeeded++
	}

	s.logSweep("send_reminders", res)
	return res, nil
}

// RunAll executes every sweep in order, used by the one-shot runner.
func (s *Service) RunAll(ctx context.Context) map[string]*Result {
	out := make(map[string]*Result, 4)
	for name, run := range map[string]func(context.Context) (*Result, error){
		"auto_confirm_orders":    s.AutoConfirmOrders,
		"auto_complete_bookings": s.AutoCompleteBookings,
		"auto_transfer_balances": s.AutoTransferBalances,
		"send_reminders":         s.SendReminders,
	} {
		res, err := run(ctx)
		if err != nil {
			s.logger.Error("sweep aborted", zap.String("sweep", name), zap.Error(err))
			res = &Result{Errors: []RowError{{Error: err.Error()}}}
		}
		out[name] = res
	}
	return out
}

func (s *Service) logSweep(name string, res *Result) {
	s.logger.Info("sweep finished",
		zap.String("sweep", name),
		zap.Int("processed", res.Processed),
		zap.Int("succeeded", res.Succeeded),
		zap.Int("failed", len(res.Errors)),
	)
}
