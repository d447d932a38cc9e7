package services

import (
	"context"
	"time"

	"printstudio/internal/models"
	"printstudio/internal/repositories"

	"github.com/google/uuid"
)

const productNotFound = "Product not found"

// ProductService handles business logic related to products.
type ProductService struct {
	repo       repositories.ProductRepository
	categories repositories.CategoryRepository
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository, categories repositories.CategoryRepository) *ProductService {
	return &ProductService{
		repo:       repo,
		categories: categories,
	}
}

// ListProducts retrieves the products matching filter, each with its categories.
func (s *ProductService) ListProducts(ctx context.Context, filter models.ProductFilter) ([]models.ProductWithCategories, error) {
	products, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, products)
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(ctx context.Context, id string) (*models.ProductWithCategories, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundDetail(err, productNotFound)
	}
	return s.enrichOne(ctx, product)
}

// CreateProduct stores a new, active product.
func (s *ProductService) CreateProduct(ctx context.Context, in models.ProductCreate) (*models.ProductWithCategories, error) {
	now := time.Now().UTC()
	product := &models.Product{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Description: in.Description,
		ImageURL:    in.ImageURL,
		CategoryIDs: in.CategoryIDs,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.Price != nil {
		product.Price = *in.Price
	}
	if product.CategoryIDs == nil {
		product.CategoryIDs = []string{}
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return s.enrichOne(ctx, product)
}

// UpdateProduct applies the non-nil fields of in and refreshes updated_at.
func (s *ProductService) UpdateProduct(ctx context.Context, id string, in models.ProductUpdate) (*models.ProductWithCategories, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundDetail(err, productNotFound)
	}

	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Price != nil {
		product.Price = *in.Price
	}
	if in.ImageURL != nil {
		product.ImageURL = *in.ImageURL
	}
	if in.CategoryIDs != nil {
		product.CategoryIDs = *in.CategoryIDs
		if product.CategoryIDs == nil {
			product.CategoryIDs = []string{}
		}
	}
	if in.IsActive != nil {
		product.IsActive = *in.IsActive
	}
	product.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, notFoundDetail(err, productNotFound)
	}
	return s.enrichOne(ctx, product)
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFoundDetail(err, productNotFound)
	}
	return nil
}

func (s *ProductService) enrichOne(ctx context.Context, product *models.Product) (*models.ProductWithCategories, error) {
	enriched, err := s.enrich(ctx, []models.Product{*product})
	if err != nil {
		return nil, err
	}
	return &enriched[0], nil
}

// enrich attaches the referenced categories to each product with a single lookup.
// Ids whose category no longer exists are skipped.
func (s *ProductService) enrich(ctx context.Context, products []models.Product) ([]models.ProductWithCategories, error) {
	seen := make(map[string]bool)
	var ids []string
	for _, p := range products {
		for _, id := range p.CategoryIDs {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}

	byID := make(map[string]models.Category, len(ids))
	if len(ids) > 0 {
		categories, err := s.categories.GetByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		for _, c := range categories {
			byID[c.ID] = c
		}
	}

	out := make([]models.ProductWithCategories, 0, len(products))
	for _, p := range products {
		if p.CategoryIDs == nil {
			p.CategoryIDs = []string{}
		}
		item := models.ProductWithCategories{Product: p, Categories: []models.Category{}}
		added := make(map[string]bool, len(p.CategoryIDs))
		for _, id := range p.CategoryIDs {
			if c, ok := byID[id]; ok && !added[id] {
				added[id] = true
				item.Categories = append(item.Categories, c)
			}
		}
		out = append(out, item)
	}
	return out, nil
}
