package migrations

import (
	"go-media-library/internal/database"
	"go-media-library/internal/models"
)

func Migrate() error {
	db := database.GetDB()

	// Auto migrate tables
	return db.AutoMigrate(
		&models.User{},
		&models.Folder{},
		&models.Media{},
	)
}
