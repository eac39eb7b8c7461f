package database

import (
	"gorm.io/gorm"

	"github.com/noah-isme/literacy-go-api/internal/models"
)

// Migrate creates or updates the schema for every persisted model.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Class{},
		&models.Student{},
		&models.Passage{},
		&models.Quiz{},
		&models.Question{},
		&models.Assessment{},
		&models.OralReadingSession{},
		&models.Miscue{},
		&models.WordTimestamp{},
		&models.Behavior{},
	)
}
