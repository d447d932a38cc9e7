package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"printstudio/internal/apperrors"
	"printstudio/internal/models"
	"printstudio/internal/repositories"

	"github.com/google/uuid"
)

const categoryNotFound = "Category not found"

// CategoryService handles business logic related to categories.
type CategoryService struct {
	repo     repositories.CategoryRepository
	products repositories.ProductRepository
	log      *slog.Logger
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(repo repositories.CategoryRepository, products repositories.ProductRepository, log *slog.Logger) *CategoryService {
	return &CategoryService{
		repo:     repo,
		products: products,
		log:      log,
	}
}

// ListCategories returns every category.
func (s *CategoryService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.repo.GetAll(ctx)
}

// GetCategory returns a single category.
func (s *CategoryService) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	category, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundDetail(err, categoryNotFound)
	}
	return category, nil
}

// CreateCategory stores a new category, refusing names whose slug is taken.
func (s *CategoryService) CreateCategory(ctx context.Context, in models.CategoryCreate) (*models.Category, error) {
	slug := Slugify(in.Name)
	if err := s.ensureSlugFree(ctx, slug, ""); err != nil {
		return nil, err
	}

	category := &models.Category{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Slug:        slug,
		Description: in.Description,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, category); err != nil {
		return nil, conflictDetail(err)
	}
	s.log.Info("category created", "id", category.ID, "slug", category.Slug)
	return category, nil
}

// UpdateCategory applies the non-nil fields of in. A new name also renames the slug,
// which must stay unique.
func (s *CategoryService) UpdateCategory(ctx context.Context, id string, in models.CategoryUpdate) (*models.Category, error) {
	category, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundDetail(err, categoryNotFound)
	}

	if in.Name != nil {
		slug := Slugify(*in.Name)
		if slug != category.Slug {
			if err := s.ensureSlugFree(ctx, slug, category.ID); err != nil {
				return nil, err
			}
		}
		category.Name = *in.Name
		category.Slug = slug
	}
	if in.Description != nil {
		category.Description = in.Description
	}

	if err := s.repo.Update(ctx, category); err != nil {
		return nil, conflictDetail(notFoundDetail(err, categoryNotFound))
	}
	return category, nil
}

// DeleteCategory removes the category and then detaches it from every product.
// The second step is best effort: a failure leaves dangling ids that reads ignore.
func (s *CategoryService) DeleteCategory(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFoundDetail(err, categoryNotFound)
	}
	affected, err := s.products.RemoveCategory(ctx, id)
	if err != nil {
		s.log.Error("failed to detach deleted category from products", "category_id", id, "error", err)
		return nil
	}
	s.log.Info("category deleted", "id", id, "products_updated", affected)
	return nil
}

// ensureSlugFree fails with a conflict when slug belongs to a category other than selfID.
func (s *CategoryService) ensureSlugFree(ctx context.Context, slug, selfID string) error {
	existing, err := s.repo.GetBySlug(ctx, slug)
	switch {
	case err == nil && existing.ID != selfID:
		return apperrors.WithDetail(fmt.Errorf("slug %s: %w", slug, apperrors.ErrConflict), "Category with this name already exists")
	case err != nil && !errors.Is(err, apperrors.ErrNotFound):
		return fmt.Errorf("failed to check slug %s: %w", slug, err)
	}
	return nil
}

func notFoundDetail(err error, detail string) error {
	if errors.Is(err, apperrors.ErrNotFound) {
		return apperrors.WithDetail(err, detail)
	}
	return err
}

func conflictDetail(err error) error {
	var de *apperrors.DetailError
	if errors.Is(err, apperrors.ErrConflict) && !errors.As(err, &de) {
		return apperrors.WithDetail(err, "Category with this name already exists")
	}
	return err
}
