package database

import (
	"github.com/yeremiapane/digital-menu/models"
	"github.com/yeremiapane/digital-menu/utils"
	"gorm.io/gorm"
)

// Models lists every persisted model in dependency order.
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.AuthIdentity{},
		&models.PaymentRecord{},
		&models.CheckoutOrder{},
		&models.RestaurantProfile{},
		&models.MenuCategory{},
		&models.MenuItem{},
		&models.Customer{},
	}
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return err
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
	return nil
}
