package initializers

import (
	"github.com/Kariqs/mealplan-api/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func SyncDatabase(db *gorm.DB, log logrus.FieldLogger) error {
	err := db.AutoMigrate(
		&models.Neighborhood{},
		&models.User{},
		&models.Admin{},
		&models.Meal{},
		&models.Week{},
		&models.Order{},
		&models.OrderItem{},
		&models.WaitlistEntry{},
	)
	if err != nil {
		return err
	}
	log.Info("Database synced successfully.")
	return nil
}
