package repositories

import (
	"fmt"

	"printstudio/internal/models"

	"gorm.io/gorm"
)

// NewGORMSet migrates the schema and returns GORM-backed repositories.
func NewGORMSet(db *gorm.DB) (*Set, error) {
	err := db.AutoMigrate(&models.User{}, &models.Category{}, &models.Product{}, &models.ContactSubmission{})
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return &Set{
		Users:      NewGORMUserRepository(db),
		Categories: NewGORMCategoryRepository(db),
		Products:   NewGORMProductRepository(db),
		Contacts:   NewGORMContactRepository(db),
	}, nil
}
