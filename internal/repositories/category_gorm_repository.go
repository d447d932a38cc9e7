package repositories

import (
	"context"
	"errors"
	"fmt"

	"printstudio/internal/apperrors"
	"printstudio/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMCategoryRepository is a GORM implementation of CategoryRepository.
type GORMCategoryRepository struct {
	db *gorm.DB
}

// NewGORMCategoryRepository creates a new instance of GORMCategoryRepository.
func NewGORMCategoryRepository(db *gorm.DB) *GORMCategoryRepository {
	return &GORMCategoryRepository{db: db}
}

// GetAll retrieves every category in storage order.
func (r *GORMCategoryRepository) GetAll(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.WithContext(ctx).Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to get all categories: %w", err)
	}
	return categories, nil
}

// GetByID retrieves a category by its ID.
func (r *GORMCategoryRepository) GetByID(ctx context.Context, id string) (*models.Category, error) {
	return r.first(ctx, "id = ?", id)
}

// GetBySlug retrieves a category by its slug.
func (r *GORMCategoryRepository) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	return r.first(ctx, "slug = ?", slug)
}

func (r *GORMCategoryRepository) first(ctx context.Context, query string, arg string) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, query, arg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("category %s: %w", arg, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get category %s: %w", arg, err)
	}
	return &category, nil
}

// GetByIDs retrieves the categories whose IDs appear in ids.
func (r *GORMCategoryRepository) GetByIDs(ctx context.Context, ids []string) ([]models.Category, error) {
	if len(ids) == 0 {
		return []models.Category{}, nil
	}
	var categories []models.Category
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to get categories by IDs: %w", err)
	}
	return categories, nil
}

// Create creates a new category.
func (r *GORMCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("slug %s: %w", category.Slug, apperrors.ErrConflict)
		}
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

// Update overwrites every column of an existing category.
func (r *GORMCategoryRepository) Update(ctx context.Context, category *models.Category) error {
	res := r.db.WithContext(ctx).Model(category).Select("*").Updates(category)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("slug %s: %w", category.Slug, apperrors.ErrConflict)
		}
		return fmt.Errorf("failed to update category: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("category %s: %w", category.ID, apperrors.ErrNotFound)
	}
	return nil
}

// Delete deletes a category by its ID.
func (r *GORMCategoryRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Category{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete category: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("category %s: %w", id, apperrors.ErrNotFound)
	}
	return nil
}
