package repository

import (
	"gorm.io/gorm"

	"photomarket/internal/domain"
)

// AutoMigrate creates or updates every table the service owns. The
// reservations table deliberately keeps both owning-client columns
// (particulier and particulier_id), see ResolveOwned.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&userModel{},
		&listingModel{},
		&bookingModel{},
		&refundModel{},
		&transferModel{},
		&orderModel{},
		&deliveryModel{},
		&domain.Notification{},
	)
}
