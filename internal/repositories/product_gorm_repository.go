package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"printstudio/internal/apperrors"
	"printstudio/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// List retrieves the products matching filter.
func (r *GORMProductRepository) List(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	q := r.db.WithContext(ctx).Model(&models.Product{})
	if filter.ActiveOnly {
		q = q.Where("is_active = ?", true)
	}
	if filter.Search != "" {
		pattern := containsPattern(filter.Search)
		q = q.Where(`(LOWER(name) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\')`, pattern, pattern)
	}
	if filter.CategoryID != "" {
		// Narrow on the serialized list; the exact check below drops false positives.
		q = q.Where(`category_ids LIKE ? ESCAPE '\'`, jsonElementPattern(filter.CategoryID))
	}

	var products []models.Product
	if err := q.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	if filter.CategoryID == "" {
		return products, nil
	}
	matched := products[:0]
	for _, p := range products {
		if p.HasCategory(filter.CategoryID) {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

// jsonElementPattern matches id inside a column written by GORM's JSON serializer. The
// needle is encoded the same way, so escaped characters such as < & " still match.
func jsonElementPattern(id string) string {
	encoded, err := json.Marshal(id)
	if err != nil {
		encoded = []byte(`"` + id + `"`)
	}
	return "%" + likeEscaper.Replace(string(encoded)) + "%"
}

// GetByID retrieves a single product by its ID from the database.
func (r *GORMProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product with ID %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	return &product, nil
}

// Create creates a new product in the database.
func (r *GORMProductRepository) Create(ctx context.Context, product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update overwrites every column of an existing product.
func (r *GORMProductRepository) Update(ctx context.Context, product *models.Product) error {
	res := r.db.WithContext(ctx).Model(product).Select("*").Updates(product)
	if res.Error != nil {
		return fmt.Errorf("failed to update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %s: %w", product.ID, apperrors.ErrNotFound)
	}
	return nil
}

// Delete deletes a product by its ID from the database.
func (r *GORMProductRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %s: %w", id, apperrors.ErrNotFound)
	}
	return nil
}

// RemoveCategory pulls categoryID out of every product referencing it.
func (r *GORMProductRepository) RemoveCategory(ctx context.Context, categoryID string) (int64, error) {
	var affected int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		products, err := (&GORMProductRepository{db: tx}).List(ctx, models.ProductFilter{CategoryID: categoryID})
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		for i := range products {
			p := &products[i]
			p.CategoryIDs = withoutID(p.CategoryIDs, categoryID)
			p.UpdatedAt = now
			if err := tx.Model(p).Select("category_ids", "updated_at").Updates(p).Error; err != nil {
				return fmt.Errorf("failed to detach category from product %s: %w", p.ID, err)
			}
			affected++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to remove category %s from products: %w", categoryID, err)
	}
	return affected, nil
}
