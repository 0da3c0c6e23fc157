package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"photomarket/internal/domain"
)

// Candidate owning-client columns, tried in this order. The schema carries
// both: particulier is the pre-migration column, particulier_id the
// current one.
var ownerColumns = []string{"particulier", "particulier_id"}

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

type bookingModel struct {
	ID            int64     `gorm:"column:id;primaryKey"`
	ListingID     int64     `gorm:"column:listing_id;index"`
	Particulier   *int64    `gorm:"column:particulier"`
	ParticulierID *int64    `gorm:"column:particulier_id;index"`
	PhotographeID int64     `gorm:"column:photographe_id;index"`
	ServiceDate   time.Time `gorm:"column:service_date;index"`
	TotalAmount   float64   `gorm:"column:total_amount"`
	DepositAmount float64   `gorm:"column:deposit_amount"`
	Status        string    `gorm:"column:status;index"`
	PaymentStatus string    `gorm:"column:payment_status"`
	PaymentRef    string    `gorm:"column:payment_ref"`

	CancellationReason *string    `gorm:"column:cancellation_reason;type:text"`
	CancelledAt        *time.Time `gorm:"column:cancelled_at"`

	AutoCompleted bool `gorm:"column:auto_completed"`
	ReminderSent  bool `gorm:"column:reminder_sent"`

	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (bookingModel) TableName() string { return "reservations" }

// ownerValue reports the value stored under the given legacy column.
func (m bookingModel) ownerValue(column string) *int64 {
	switch column {
	case "particulier":
		return m.Particulier
	case "particulier_id":
		return m.ParticulierID
	}
	return nil
}

func (m bookingModel) clientID() int64 {
	for _, col := range ownerColumns {
		if v := m.ownerValue(col); v != nil {
			return *v
		}
	}
	return 0
}

func toDomainBooking(m bookingModel) *domain.Booking {
	var reason string
	if m.CancellationReason != nil {
		reason = *m.CancellationReason
	}

	return &domain.Booking{
		ID:                 m.ID,
		ListingID:          m.ListingID,
		ClientID:           m.clientID(),
		PhotographeID:      m.PhotographeID,
		ServiceDate:        m.ServiceDate,
		TotalAmount:        m.TotalAmount,
		DepositAmount:      m.DepositAmount,
		Status:             domain.BookingStatus(m.Status),
		PaymentStatus:      domain.PaymentStatus(m.PaymentStatus),
		PaymentRef:         m.PaymentRef,
		CancellationReason: reason,
		CancelledAt:        m.CancelledAt,
		AutoCompleted:      m.AutoCompleted,
		ReminderSent:       m.ReminderSent,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

func toBookingModel(b *domain.Booking) bookingModel {
	var reason *string
	if b.CancellationReason != "" {
		v := b.CancellationReason
		reason = &v
	}
	clientID := b.ClientID

	return bookingModel{
		ID:                 b.ID,
		ListingID:          b.ListingID,
		ParticulierID:      &clientID,
		PhotographeID:      b.PhotographeID,
		ServiceDate:        b.ServiceDate,
		TotalAmount:        b.TotalAmount,
		DepositAmount:      b.DepositAmount,
		Status:             string(b.Status),
		PaymentStatus:      string(b.PaymentStatus),
		PaymentRef:         b.PaymentRef,
		CancellationReason: reason,
		CancelledAt:        b.CancelledAt,
		AutoCompleted:      b.AutoCompleted,
		ReminderSent:       b.ReminderSent,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	m := toBookingModel(b)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*b = *toDomainBooking(m)
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var m bookingModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, tx.Error
	}
	return toDomainBooking(m), nil
}

// ResolveOwned finds a booking and verifies the caller owns it, hiding the
// legacy dual-column residue from business code. It reports which column
// matched. ErrNotFound means no such booking, ErrNotOwner means the booking
// exists but belongs to someone else.
func (r *BookingRepository) ResolveOwned(ctx context.Context, bookingID, userID int64) (*domain.Booking, string, error) {
	var m bookingModel
	tx := r.db.WithContext(ctx).First(&m, bookingID)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, "", ErrNotFound
		}
		return nil, "", tx.Error
	}

	owned := false
	for _, col := range ownerColumns {
		v := m.ownerValue(col)
		if v == nil {
			continue
		}
		owned = true
		if *v == userID {
			return toDomainBooking(m), col, nil
		}
	}
	if owned {
		return nil, "", ErrNotOwner
	}
	// No owner recorded under either column: treat as absent rather than
	// leak an orphaned row.
	return nil, "", ErrNotFound
}

func (r *BookingRepository) ListByClient(ctx context.Context, userID int64, limit, offset int) ([]domain.Booking, error) {
	var rows []bookingModel
	tx := r.db.WithContext(ctx).
		Where("particulier = ? OR particulier_id = ?", userID, userID).
		Order("service_date DESC").
		Limit(limit).Offset(offset).
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Booking, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainBooking(m))
	}
	return out, nil
}

// CancelWithRefund atomically marks the booking cancelled and creates its
// refund row. The status predicate is the optimistic check-then-set: a
// concurrent cancellation loses here with ErrAlreadyCancelled, and the
// unique index on remboursements.reservation_id stops a second refund row
// with ErrDuplicateRefund. Either way the caller re-reads existing state.
func (r *BookingRepository) CancelWithRefund(ctx context.Context, bookingID int64, reason string, cancelledAt time.Time, refund *domain.Refund) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&bookingModel{}).
			Where("id = ? AND status IN ?", bookingID, cancellableStatusStrings()).
			Updates(map[string]any{
				"status":              string(domain.BookingCancelled),
				"cancellation_reason": reason,
				"cancelled_at":        cancelledAt,
				"updated_at":          time.Now().UTC(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyCancelled
		}

		m := toRefundModel(refund)
		if err := tx.Create(&m).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicateRefund
			}
			return err
		}
		*refund = *toDomainRefund(m)
		return nil
	})
}

func (r *BookingRepository) UpdatePaymentStatus(ctx context.Context, bookingID int64, status domain.PaymentStatus) (*domain.Booking, error) {
	res := r.db.WithContext(ctx).Model(&bookingModel{}).
		Where("id = ?", bookingID).
		Updates(map[string]any{"payment_status": string(status), "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, bookingID)
}

func (r *BookingRepository) MarkCompleted(ctx context.Context, bookingID int64, auto bool) error {
	res := r.db.WithContext(ctx).Model(&bookingModel{}).
		Where("id = ? AND status IN ?", bookingID, []string{
			string(domain.BookingDepositPaid),
			string(domain.BookingConfirmed),
			string(domain.BookingFinished),
		}).
		Updates(map[string]any{
			"status":         string(domain.BookingCompleted),
			"auto_completed": auto,
			"updated_at":     time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *BookingRepository) MarkReminderSent(ctx context.Context, bookingID int64) error {
	return r.db.WithContext(ctx).Model(&bookingModel{}).
		Where("id = ?", bookingID).
		Updates(map[string]any{"reminder_sent": true, "updated_at": time.Now().UTC()}).Error
}

// FindActivePastService returns paid bookings whose service date is before
// the cutoff and that never reached a terminal status.
func (r *BookingRepository) FindActivePastService(ctx context.Context, before time.Time) ([]domain.Booking, error) {
	return r.findByPredicate(ctx, r.db.
		Where("status IN ?", []string{
			string(domain.BookingDepositPaid),
			string(domain.BookingConfirmed),
			string(domain.BookingFinished),
		}).
		Where("service_date < ?", before))
}

func (r *BookingRepository) FindCompletedDepositPaid(ctx context.Context) ([]domain.Booking, error) {
	return r.findByPredicate(ctx, r.db.
		Where("status = ?", string(domain.BookingCompleted)).
		Where("payment_status = ?", string(domain.PaymentDepositPaid)))
}

// FindForReminder returns bookings whose service date falls inside the
// window and that have not been reminded yet.
func (r *BookingRepository) FindForReminder(ctx context.Context, from, to time.Time) ([]domain.Booking, error) {
	return r.findByPredicate(ctx, r.db.
		Where("status IN ?", []string{
			string(domain.BookingDepositPaid),
			string(domain.BookingConfirmed),
		}).
		Where("service_date >= ? AND service_date < ?", from, to).
		Where("reminder_sent = ?", false))
}

func (r *BookingRepository) findByPredicate(ctx context.Context, q *gorm.DB) ([]domain.Booking, error) {
	var rows []bookingModel
	tx := q.WithContext(ctx).Order("id").Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Booking, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainBooking(m))
	}
	return out, nil
}

func cancellableStatusStrings() []string {
	out := make([]string, 0, len(domain.CancellableStatuses))
	for _, s := range domain.CancellableStatuses {
		out = append(out, string(s))
	}
	return out
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	// sqlite (local/test driver) reports the constraint in the message.
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
