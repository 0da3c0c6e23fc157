package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"photomarket/internal/domain"
)

type RefundRepository struct {
	db *gorm.DB
}

func NewRefundRepository(db *gorm.DB) *RefundRepository {
	return &RefundRepository{db: db}
}

type refundModel struct {
	ID             int64   `gorm:"column:id;primaryKey"`
	BookingID      int64   `gorm:"column:reservation_id;uniqueIndex"`
	OriginalAmount float64 `gorm:"column:original_amount"`
	RefundedAmount float64 `gorm:"column:refunded_amount"`
	Percentage     int     `gorm:"column:percentage"`
	Status         string  `gorm:"column:status;index"`
	Policy         string  `gorm:"column:policy"`
	Reason         *string `gorm:"column:reason;type:text"`

	ProcessorRefundID string     `gorm:"column:processor_refund_id"`
	AdminID           *int64     `gorm:"column:admin_id"`
	AdminNote         *string    `gorm:"column:admin_note;type:text"`
	ProcessedAt       *time.Time `gorm:"column:processed_at"`

	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (refundModel) TableName() string { return "remboursements" }

func toDomainRefund(m refundModel) *domain.Refund {
	var reason, note string
	if m.Reason != nil {
		reason = *m.Reason
	}
	if m.AdminNote != nil {
		note = *m.AdminNote
	}

	return &domain.Refund{
		ID:                m.ID,
		BookingID:         m.BookingID,
		OriginalAmount:    m.OriginalAmount,
		RefundedAmount:    m.RefundedAmount,
		Percentage:        m.Percentage,
		Status:            domain.RefundStatus(m.Status),
		Policy:            m.Policy,
		Reason:            reason,
		ProcessorRefundID: m.ProcessorRefundID,
		AdminID:           m.AdminID,
		AdminNote:         note,
		ProcessedAt:       m.ProcessedAt,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

func toRefundModel(r *domain.Refund) refundModel {
	var reason, note *string
	if r.Reason != "" {
		v := r.Reason
		reason = &v
	}
	if r.AdminNote != "" {
		v := r.AdminNote
		note = &v
	}

	return refundModel{
		ID:                r.ID,
		BookingID:         r.BookingID,
		OriginalAmount:    r.OriginalAmount,
		RefundedAmount:    r.RefundedAmount,
		Percentage:        r.Percentage,
		Status:            string(r.Status),
		Policy:            r.Policy,
		Reason:            reason,
		ProcessorRefundID: r.ProcessorRefundID,
		AdminID:           r.AdminID,
		AdminNote:         note,
		ProcessedAt:       r.ProcessedAt,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}

func (r *RefundRepository) Create(ctx context.Context, refund *domain.Refund) error {
	m := toRefundModel(refund)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		if isUniqueViolation(tx.Error) {
			return ErrDuplicateRefund
		}
		return tx.Error
	}
	*refund = *toDomainRefund(m)
	return nil
}

func (r *RefundRepository) GetByID(ctx context.Context, id int64) (*domain.Refund, error) {
	var m refundModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, tx.Error
	}
	return toDomainRefund(m), nil
}

func (r *RefundRepository) GetByBookingID(ctx context.Context, bookingID int64) (*domain.Refund, error) {
	var m refundModel
	tx := r.db.WithContext(ctx).Where("reservation_id = ?", bookingID).First(&m)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, tx.Error
	}
	return toDomainRefund(m), nil
}

func (r *RefundRepository) ListByStatus(ctx context.Context, status domain.RefundStatus, limit, offset int) ([]domain.Refund, error) {
	var rows []refundModel
	tx := r.db.WithContext(ctx).
		Where("status = ?", string(status)).
		Order("created_at").
		Limit(limit).Offset(offset).
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Refund, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainRefund(m))
	}
	return out, nil
}

// MarkProcessed stamps the external refund id and flips the row to
// processed. Returns ErrNotFound when the row already left pending state,
// keeping the call safe to retry.
func (r *RefundRepository) MarkProcessed(ctx context.Context, id int64, processorRefundID string, processedAt time.Time) error {
	res := r.db.WithContext(ctx).Model(&refundModel{}).
		Where("id = ? AND status IN ?", id, []string{
			string(domain.RefundPending),
			string(domain.RefundAdminReview),
		}).
		Updates(map[string]any{
			"status":              string(domain.RefundProcessed),
			"processor_refund_id": processorRefundID,
			"processed_at":        processedAt,
			"updated_at":          time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkOverridden records an admin force-majeure decision on top of
// MarkProcessed's stamps.
func (r *RefundRepository) MarkOverridden(ctx context.Context, id, adminID int64, note, processorRefundID string, amount float64, processedAt time.Time) error {
	res := r.db.WithContext(ctx).Model(&refundModel{}).
		Where("id = ? AND status <> ?", id, string(domain.RefundProcessed)).
		Updates(map[string]any{
			"status":              string(domain.RefundProcessed),
			"refunded_amount":     amount,
			"percentage":          100,
			"processor_refund_id": processorRefundID,
			"admin_id":            adminID,
			"admin_note":          note,
			"processed_at":        processedAt,
			"updated_at":          time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
