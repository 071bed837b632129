package initializers

import (
	"log"

	"github.com/Kariqs/kikomiilano-api/models"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{}, &models.Customer{}, &models.Product{}, &models.Order{})
}

func SyncDatabase() {
	if err := Migrate(DB); err != nil {
		log.Fatal("Failed to sync database: ", err)
	}
	log.Println("Database synced successfully.")
}
