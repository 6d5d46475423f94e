package initializers

import (
	"log"

	"github.com/festora/festora-api/models"
)

func SyncDatabase() {
	DB.AutoMigrate(
		&models.User{},
		&models.Event{},
		&models.Stall{},
		&models.Product{},
		&models.ProductImage{},
		&models.CartItem{},
		&models.Coupon{},
		&models.CouponExcludedStall{},
		&models.Order{},
		&models.OrderItem{},
	)
	log.Println("Database synced successfully.")
}
