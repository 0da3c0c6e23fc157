package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"photomarket/internal/domain"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

type orderModel struct {
	ID            int64      `gorm:"column:id;primaryKey"`
	ClientID      int64      `gorm:"column:particulier_id;index"`
	PhotographeID int64      `gorm:"column:photographe_id;index"`
	TotalAmount   float64    `gorm:"column:total_amount"`
	Status        string     `gorm:"column:status;index"`
	PaidAt        *time.Time `gorm:"column:paid_at"`
	ConfirmedAt   *time.Time `gorm:"column:confirmed_at"`
	CreatedAt     time.Time  `gorm:"column:created_at"`
	UpdatedAt     time.Time  `gorm:"column:updated_at"`
}

func (orderModel) TableName() string { return "commandes" }

type deliveryModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	OrderID   int64     `gorm:"column:commande_id;uniqueIndex"`
	Status    string    `gorm:"column:status"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (deliveryModel) TableName() string { return "livraisons" }

func toDomainOrder(m orderModel) *domain.Order {
	return &domain.Order{
		ID:            m.ID,
		ClientID:      m.ClientID,
		PhotographeID: m.PhotographeID,
		TotalAmount:   m.TotalAmount,
		Status:        domain.OrderStatus(m.Status),
		PaidAt:        m.PaidAt,
		ConfirmedAt:   m.ConfirmedAt,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) error {
	m := orderModel{
		ClientID:      o.ClientID,
		PhotographeID: o.PhotographeID,
		TotalAmount:   o.TotalAmount,
		Status:        string(o.Status),
		PaidAt:        o.PaidAt,
	}
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*o = *toDomainOrder(m)
	return nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	var m orderModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, tx.Error
	}
	return toDomainOrder(m), nil
}

// FindPaidBefore returns orders still in paid status whose payment happened
// before the cutoff, the auto-confirm sweep's eligibility predicate.
func (r *OrderRepository) FindPaidBefore(ctx context.Context, cutoff time.Time) ([]domain.Order, error) {
	var rows []orderModel
	tx := r.db.WithContext(ctx).
		Where("status = ? AND paid_at IS NOT NULL AND paid_at < ?", string(domain.OrderPaid), cutoff).
		Order("id").
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Order, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainOrder(m))
	}
	return out, nil
}

// Confirm transitions paid → confirmed. The status predicate makes a
// repeated sweep run a no-op for already-confirmed rows.
func (r *OrderRepository) Confirm(ctx context.Context, orderID int64, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&orderModel{}).
		Where("id = ? AND status = ?", orderID, string(domain.OrderPaid)).
		Updates(map[string]any{
			"status":       string(domain.OrderConfirmed),
			"confirmed_at": at,
			"updated_at":   time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *OrderRepository) MarkPaid(ctx context.Context, orderID int64, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&orderModel{}).
		Where("id = ? AND status = ?", orderID, string(domain.OrderPending)).
		Updates(map[string]any{
			"status":     string(domain.OrderPaid),
			"paid_at":    at,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// EnsureDelivery upserts the delivery record for an order so confirming
// twice never leaves two rows.
func (r *OrderRepository) EnsureDelivery(ctx context.Context, orderID int64) error {
	m := deliveryModel{
		OrderID: orderID,
		Status:  string(domain.DeliveryPreparing),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "commande_id"}},
			DoNothing: true,
		}).
		Create(&m).Error
}

func (r *OrderRepository) ListByClient(ctx context.Context, clientID int64, limit, offset int) ([]domain.Order, error) {
	var rows []orderModel
	tx := r.db.WithContext(ctx).
		Where("particulier_id = ?", clientID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Order, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainOrder(m))
	}
	return out, nil
}
