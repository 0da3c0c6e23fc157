package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"photomarket/internal/domain"
)

type TransferRepository struct {
	db *gorm.DB
}

func NewTransferRepository(db *gorm.DB) *TransferRepository {
	return &TransferRepository{db: db}
}

type transferModel struct {
	ID                  string    `gorm:"column:id;primaryKey"`
	BookingID           int64     `gorm:"column:reservation_id;index:idx_transfer_booking_kind,unique"`
	Kind                string    `gorm:"column:kind;index:idx_transfer_booking_kind,unique"`
	Amount              float64   `gorm:"column:amount"`
	AmountCents         int64     `gorm:"column:amount_cents"`
	DestinationAccount  string    `gorm:"column:destination_account"`
	TransferGroup       string    `gorm:"column:transfer_group;index"`
	ProcessorTransferID string    `gorm:"column:processor_transfer_id"`
	CreatedAt           time.Time `gorm:"column:created_at"`
}

func (transferModel) TableName() string { return "transferts" }

func toDomainTransfer(m transferModel) *domain.Transfer {
	return &domain.Transfer{
		ID:                  m.ID,
		BookingID:           m.BookingID,
		Kind:                domain.TransferKind(m.Kind),
		Amount:              m.Amount,
		AmountCents:         m.AmountCents,
		DestinationAccount:  m.DestinationAccount,
		TransferGroup:       m.TransferGroup,
		ProcessorTransferID: m.ProcessorTransferID,
		CreatedAt:           m.CreatedAt,
	}
}

func (r *TransferRepository) Create(ctx context.Context, t *domain.Transfer) error {
	m := transferModel{
		ID:                  t.ID,
		BookingID:           t.BookingID,
		Kind:                string(t.Kind),
		Amount:              t.Amount,
		AmountCents:         t.AmountCents,
		DestinationAccount:  t.DestinationAccount,
		TransferGroup:       t.TransferGroup,
		ProcessorTransferID: t.ProcessorTransferID,
	}
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*t = *toDomainTransfer(m)
	return nil
}

// FindByBookingAndKind looks for an existing ledger entry for the booking's
// transfer group. A hit means the money already moved.
func (r *TransferRepository) FindByBookingAndKind(ctx context.Context, bookingID int64, kind domain.TransferKind) (*domain.Transfer, error) {
	var m transferModel
	tx := r.db.WithContext(ctx).
		Where("reservation_id = ? AND kind = ?", bookingID, string(kind)).
		First(&m)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, tx.Error
	}
	return toDomainTransfer(m), nil
}

func (r *TransferRepository) ListByBooking(ctx context.Context, bookingID int64) ([]domain.Transfer, error) {
	var rows []transferModel
	tx := r.db.WithContext(ctx).
		Where("reservation_id = ?", bookingID).
		Order("created_at").
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Transfer, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainTransfer(m))
	}
	return out, nil
}
