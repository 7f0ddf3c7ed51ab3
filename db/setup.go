package db

import (
	"github.com/peerlink-dev/peerlink/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDatabase(dsn string) error {
	var err error

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})

	if err != nil {
		return err
	}

	return nil
}

func MigrateDatabase() error {
	models := []interface{}{
		&models.User{},
		&models.Profile{},
		&models.Connection{},
		&models.Meeting{},
		&models.Note{},
		&models.Task{},
	}

	return DB.AutoMigrate(models...)
}
