package database

import (
	"shophub_backend/internal/models"

	"gorm.io/gorm"
)

// Migrate приводит схему БД к моделям приложения
func Migrate(db *gorm.DB) error {
	// Генератор uuid для первичных ключей
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return err
	}

	return db.AutoMigrate(
		&models.User{},
		&models.Otp{},
		&models.UserDocument{},
		&models.Profile{},
		&models.Role{},
		&models.Shop{},
		&models.ShopLocation{},
		&models.ShopUserRole{},
		&models.ShopFile{},
		&models.Category{},
		&models.Blog{},
		&models.BlogCategory{},
	)
}
