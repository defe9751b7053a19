package initializers

import (
	"log"

	"github.com/Mokereri/hotel-kitchen-api/models"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{}, &models.Order{}, &models.OrderItem{}, &models.Meal{}, &models.PaymentCallback{})
}

func SyncDatabase() {
	if err := Migrate(DB); err != nil {
		log.Fatal("Database migration failed: ", err)
	}
	log.Println("Database synced successfully.")
}
