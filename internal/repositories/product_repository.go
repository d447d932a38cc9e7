package repositories

import (
	"context"

	"printstudio/internal/models"
)

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	List(ctx context.Context, filter models.ProductFilter) ([]models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id string) error
	// RemoveCategory pulls categoryID from every product referencing it and
	// returns how many products changed.
	RemoveCategory(ctx context.Context, categoryID string) (int64, error)
}
