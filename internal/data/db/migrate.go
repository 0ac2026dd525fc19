package db

import (
	"gorm.io/gorm"

	"github.com/yungbote/edutainment-backend/internal/domain"
)

// AutoMigrateAll creates or updates every table and its natural-key unique
// indexes.
func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(domain.All()...)
}
