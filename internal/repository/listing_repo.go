package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"photomarket/internal/domain"
)

type ListingRepository struct {
	db *gorm.DB
}

func NewListingRepository(db *gorm.DB) *ListingRepository {
	return &ListingRepository{db: db}
}

type listingModel struct {
	ID                 int64     `gorm:"column:id;primaryKey"`
	PhotographeID      int64     `gorm:"column:photographe_id;index"`
	Title              string    `gorm:"column:title"`
	Description        *string   `gorm:"column:description;type:text"`
	Price              float64   `gorm:"column:price"`
	DepositPercent     int       `gorm:"column:deposit_percent"`
	CancellationPolicy string    `gorm:"column:cancellation_policy"`
	Active             bool      `gorm:"column:active"`
	CreatedAt          time.Time `gorm:"column:created_at"`
	UpdatedAt          time.Time `gorm:"column:updated_at"`
}

func (listingModel) TableName() string { return "listings" }

func toDomainListing(m listingModel) *domain.Listing {
	var desc string
	if m.Description != nil {
		desc = *m.Description
	}

	return &domain.Listing{
		ID:                 m.ID,
		PhotographeID:      m.PhotographeID,
		Title:              m.Title,
		Description:        desc,
		Price:              m.Price,
		DepositPercent:     m.DepositPercent,
		CancellationPolicy: m.CancellationPolicy,
		Active:             m.Active,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

func (r *ListingRepository) Create(ctx context.Context, l *domain.Listing) error {
	var desc *string
	if l.Description != "" {
		v := l.Description
		desc = &v
	}
	m := listingModel{
		PhotographeID:      l.PhotographeID,
		Title:              l.Title,
		Description:        desc,
		Price:              l.Price,
		DepositPercent:     l.DepositPercent,
		CancellationPolicy: l.CancellationPolicy,
		Active:             l.Active,
	}
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*l = *toDomainListing(m)
	return nil
}

func (r *ListingRepository) GetByID(ctx context.Context, id int64) (*domain.Listing, error) {
	var m listingModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, tx.Error
	}
	return toDomainListing(m), nil
}
