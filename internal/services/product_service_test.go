package services_test

import (
	"errors"
	"testing"
	"time"

	"printstudio/internal/apperrors"
	"printstudio/internal/models"
	"printstudio/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newProductService() (*services.ProductService, *MockProductRepository, *MockCategoryRepository) {
	products := new(MockProductRepository)
	categories := new(MockCategoryRepository)
	return services.NewProductService(products, categories), products, categories
}

func floatPtr(f float64) *float64 { return &f }

func TestProductService_ListProductsEnriches(t *testing.T) {
	service, products, categories := newProductService()
	filter := models.ProductFilter{Search: "maqueta", ActiveOnly: true}
	stored := []models.Product{
		{ID: "p1", Name: "Maqueta", CategoryIDs: []string{"c1", "gone", "c2"}, IsActive: true},
		{ID: "p2", Name: "Maqueta 2", CategoryIDs: []string{"c2", "c2"}, IsActive: true},
		{ID: "p3", Name: "Maqueta 3", IsActive: true},
	}
	cats := []models.Category{{ID: "c2", Slug: "arte"}, {ID: "c1", Slug: "arquitectura"}}

	products.On("List", mock.Anything, filter).Return(stored, nil).Once()
	categories.On("GetByIDs", mock.Anything, []string{"c1", "gone", "c2"}).Return(cats, nil).Once()

	list, err := service.ListProducts(ctx, filter)
	require.NoError(t, err)
	require.Len(t, list, 3)

	assert.Equal(t, []models.Category{cats[1], cats[0]}, list[0].Categories)
	assert.Equal(t, []models.Category{cats[0]}, list[1].Categories)
	assert.NotNil(t, list[2].Categories)
	assert.Empty(t, list[2].Categories)
	assert.Equal(t, []string{}, list[2].CategoryIDs)

	assertMocks(t, products, categories)
}

func TestProductService_ListProductsWithoutCategoriesSkipsLookup(t *testing.T) {
	service, products, categories := newProductService()
	products.On("List", mock.Anything, models.ProductFilter{}).Return([]models.Product{}, nil).Once()

	list, err := service.ListProducts(ctx, models.ProductFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
	categories.AssertNotCalled(t, "GetByIDs", mock.Anything, mock.Anything)
}

func TestProductService_GetProductByID(t *testing.T) {
	service, products, categories := newProductService()

	products.On("GetByID", mock.Anything, "p1").Return(&models.Product{ID: "p1", CategoryIDs: []string{"c1"}}, nil).Once()
	categories.On("GetByIDs", mock.Anything, []string{"c1"}).Return([]models.Category{{ID: "c1"}}, nil).Once()
	product, err := service.GetProductByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "p1", product.ID)
	assert.Len(t, product.Categories, 1)

	products.On("GetByID", mock.Anything, "99").Return(nil, apperrors.ErrNotFound).Once()
	_, err = service.GetProductByID(ctx, "99")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Equal(t, "Product not found", apperrors.Detail(err, ""))

	assertMocks(t, products, categories)
}

func TestProductService_CreateProduct(t *testing.T) {
	service, products, categories := newProductService()

	var saved *models.Product
	products.On("Create", mock.Anything, mock.AnythingOfType("*models.Product")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(*models.Product) }).
		Return(nil).Once()

	created, err := service.CreateProduct(ctx, models.ProductCreate{
		Name:        "Jarrón",
		Description: "PLA",
		Price:       floatPtr(0),
		ImageURL:    "/img/jarron.png",
	})
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.True(t, saved.IsActive)
	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, []string{}, saved.CategoryIDs)
	assert.Equal(t, saved.CreatedAt, saved.UpdatedAt)
	assert.Equal(t, saved.ID, created.ID)
	assert.Empty(t, created.Categories)

	products.On("Create", mock.Anything, mock.AnythingOfType("*models.Product")).Return(errors.New("database error")).Once()
	_, err = service.CreateProduct(ctx, models.ProductCreate{Name: "x", Price: floatPtr(1)})
	assert.ErrorContains(t, err, "database error")

	assertMocks(t, products, categories)
}

func TestProductService_UpdateProduct(t *testing.T) {
	service, products, categories := newProductService()
	before := time.Now().Add(-time.Hour).UTC()
	stored := func() *models.Product {
		return &models.Product{
			ID:          "p1",
			Name:        "Old",
			Description: "desc",
			Price:       10,
			CategoryIDs: []string{"c1"},
			IsActive:    true,
			CreatedAt:   before,
			UpdatedAt:   before,
		}
	}

	products.On("GetByID", mock.Anything, "p1").Return(stored(), nil).Once()
	products.On("Update", mock.Anything, mock.AnythingOfType("*models.Product")).Return(nil).Once()
	inactive := false
	cleared := []string{}
	updated, err := service.UpdateProduct(ctx, "p1", models.ProductUpdate{
		Price:       floatPtr(12.5),
		IsActive:    &inactive,
		CategoryIDs: &cleared,
	})
	require.NoError(t, err)
	assert.Equal(t, "Old", updated.Name)
	assert.Equal(t, "desc", updated.Description)
	assert.Equal(t, 12.5, updated.Price)
	assert.False(t, updated.IsActive)
	assert.Empty(t, updated.CategoryIDs)
	assert.Equal(t, before, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(before))

	// An empty update still refreshes updated_at.
	products.On("GetByID", mock.Anything, "p1").Return(stored(), nil).Once()
	products.On("Update", mock.Anything, mock.AnythingOfType("*models.Product")).Return(nil).Once()
	categories.On("GetByIDs", mock.Anything, []string{"c1"}).Return([]models.Category{{ID: "c1"}}, nil).Once()
	updated, err = service.UpdateProduct(ctx, "p1", models.ProductUpdate{})
	require.NoError(t, err)
	assert.True(t, updated.UpdatedAt.After(before))
	assert.Len(t, updated.Categories, 1)

	products.On("GetByID", mock.Anything, "99").Return(nil, apperrors.ErrNotFound).Once()
	_, err = service.UpdateProduct(ctx, "99", models.ProductUpdate{Name: strPtr("x")})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	assertMocks(t, products, categories)
}

func TestProductService_DeleteProduct(t *testing.T) {
	service, products, _ := newProductService()

	products.On("Delete", mock.Anything, "1").Return(nil).Once()
	assert.NoError(t, service.DeleteProduct(ctx, "1"))

	products.On("Delete", mock.Anything, "99").Return(apperrors.ErrNotFound).Once()
	err := service.DeleteProduct(ctx, "99")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Equal(t, "Product not found", apperrors.Detail(err, ""))
	products.AssertExpectations(t)
}
