package initializers

import (
	"github.com/Kariqs/puffvibe-api/models"
	"gorm.io/gorm"
)

// SyncDatabase migrates every table the store and the simple order sink use.
func SyncDatabase(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.PricingTier{},
		&models.Order{},
		&models.OrderItem{},
		&models.InventoryEntry{},
		&models.SimpleOrder{},
	)
}
