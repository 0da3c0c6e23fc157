package settlement

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"photomarket/internal/domain"
	"photomarket/internal/gateway"
	"photomarket/internal/repository"
)

type Service struct {
	bookings  BookingStore
	transfers TransferLedger
	users     UserStore
	payments  PaymentProcessor
	notifs    NotificationQueue
	logger    *zap.Logger
}

func NewService(bookings BookingStore, transfers TransferLedger, users UserStore, payments PaymentProcessor, notifs NotificationQueue, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		bookings:  bookings,
		transfers: transfers,
		users:     users,
		payments:  payments,
		notifs:    notifs,
		logger:    logger,
	}
}

// TransferDeposit moves the deposit portion of a captured payment to the
// photographer's payment account. Re-invoking is safe: an existing ledger
// entry for (booking, deposit) short-circuits with that entry.
func (s *Service) TransferDeposit(ctx context.Context, bookingID int64, destinationAccount string) (*domain.Transfer, error) {
	return s.transfer(ctx, bookingID, destinationAccount, domain.TransferDeposit)
}

// TransferBalance moves the remainder after service completion, flipping
// the booking to fully paid.
func (s *Service) TransferBalance(ctx context.Context, bookingID int64, destinationAccount string) (*domain.Transfer, error) {
	return s.transfer(ctx, bookingID, destinationAccount, domain.TransferBalance)
}

func (s *Service) transfer(ctx context.Context, bookingID int64, destinationAccount string, kind domain.TransferKind) (*domain.Transfer, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load booking: %w", err)
	}

	if destinationAccount == "" {
		u, err := s.users.GetByID(ctx, b.PhotographeID)
		if err != nil {
			return nil, fmt.Errorf("load photographer %d: %w", b.PhotographeID, err)
		}
		destinationAccount = u.PaymentAccountID
	}
	if destinationAccount == "" {
		return nil, fmt.Errorf("%w: photographer has no payment account", ErrValidation)
	}

	// The ledger is the idempotency record for the booking's transfer
	// group: one entry per (group, kind), checked before touching the
	// processor.
	if existing, err := s.transfers.FindByBookingAndKind(ctx, bookingID, kind); err == nil {
		s.logger.Info("transfer already ledgered",
			zap.Int64("booking_id", bookingID),
			zap.String("kind", string(kind)),
			zap.String("transfer_id", existing.ID),
		)
		return existing, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("check transfer ledger: %w", err)
	}

	amount, err := s.amountFor(b, kind)
	if err != nil {
		return nil, err
	}

	group := strconv.FormatInt(b.ID, 10)
	cents := gateway.Cents(amount)
	processorID, err := s.payments.CreateTransfer(ctx, cents, destinationAccount, group, map[string]string{
		"booking_id": group,
		"kind":       string(kind),
	})
	if err != nil {
		s.logger.Error("processor transfer failed",
			zap.Int64("booking_id", bookingID),
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	entry := &domain.Transfer{
		ID:                  uuid.NewString(),
		BookingID:           b.ID,
		Kind:                kind,
		Amount:              amount,
		AmountCents:         cents,
		DestinationAccount:  destinationAccount,
		TransferGroup:       group,
		ProcessorTransferID: processorID,
	}
	if err := s.transfers.Create(ctx, entry); err != nil {
		// The money moved but the ledger write failed; log loudly, the
		// processor-side transfer group still protects reconciliation.
		s.logger.Error("transfer executed but ledger append failed",
			zap.Int64("booking_id", bookingID),
			zap.String("processor_transfer_id", processorID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("append transfer ledger: %w", err)
	}

	next := domain.PaymentDepositPaid
	if kind == domain.TransferBalance {
		next = domain.PaymentFullyPaid
	}
	if _, err := s.bookings.UpdatePaymentStatus(ctx, b.ID, next); err != nil {
		s.logger.Error("failed to advance booking payment status",
			zap.Int64("booking_id", b.ID),
			zap.String("status", string(next)),
			zap.Error(err),
		)
	}

	s.logger.Info("transfer completed",
		zap.Int64("booking_id", b.ID),
		zap.String("kind", string(kind)),
		zap.Int64("amount_cents", cents),
	)
	_ = s.notifs.Queue(ctx, b.PhotographeID, domain.NotifTransferSent,
		"Virement envoyé",
		fmt.Sprintf("A %s transfer of %.2f € for booking #%d is on its way to your account.", kind, amount, b.ID),
		map[string]any{"booking_id": b.ID, "kind": string(kind)},
		fmt.Sprintf("/bookings/%d", b.ID),
	)
	return entry, nil
}

func (s *Service) amountFor(b *domain.Booking, kind domain.TransferKind) (float64, error) {
	switch kind {
	case domain.TransferDeposit:
		if b.PaymentStatus != domain.PaymentCaptured {
			return 0, fmt.Errorf("%w: payment status is %s", ErrNotTransferable, b.PaymentStatus)
		}
		if b.DepositAmount <= 0 {
			return 0, fmt.Errorf("%w: deposit amount is not positive", ErrValidation)
		}
		return b.DepositAmount, nil
	case domain.TransferBalance:
		if b.PaymentStatus != domain.PaymentDepositPaid {
			return 0, fmt.Errorf("%w: payment status is %s", ErrNotTransferable, b.PaymentStatus)
		}
		balance := b.BalanceAmount()
		if balance <= 0 {
			return 0, fmt.Errorf("%w: balance amount is not positive", ErrValidation)
		}
		return balance, nil
	}
	return 0, fmt.Errorf("%w: unknown transfer kind %q", ErrValidation, kind)
}
