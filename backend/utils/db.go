package utils

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"mundokids/backend/config"
	"mundokids/backend/models"
)

// InitDB opens the Postgres connection and migrates the schema. A failure here
// is fatal for the caller: the service does not run without its database.
func InitDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates or updates every table the service uses.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Classroom{},
		&models.Student{},
		&models.CompletedActivity{},
		&models.World{},
		&models.Activity{},
		&models.Post{},
		&models.Attachment{},
	)
}
