package repositories_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"printstudio/internal/apperrors"
	"printstudio/internal/models"
	"printstudio/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestSet opens a private in-memory SQLite database for one test.
func newTestSet(t *testing.T) *repositories.Set {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	set, err := repositories.NewGORMSet(db)
	require.NoError(t, err)
	return set
}

func seedProducts(t *testing.T, repo repositories.ProductRepository, products ...models.Product) []models.Product {
	t.Helper()
	for i := range products {
		require.NoError(t, repo.Create(context.Background(), &products[i]))
	}
	return products
}

func TestGORMProductRepository_ListFilters(t *testing.T) {
	ctx := context.Background()
	set := newTestSet(t)
	seedProducts(t, set.Products,
		models.Product{Name: "Maqueta Casa", Description: "Arquitectura a escala", CategoryIDs: []string{"c1"}, IsActive: true},
		models.Product{Name: "Figura", Description: "Resina pintada MAQUETA", CategoryIDs: []string{"c2"}, IsActive: true},
		models.Product{Name: "Prototipo", Description: "Pieza funcional", CategoryIDs: []string{"c1", "c2"}, IsActive: false},
		models.Product{Name: "50% descuento", Description: "oferta", CategoryIDs: []string{}, IsActive: true},
	)

	all, err := set.Products.List(ctx, models.ProductFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 4)

	active, err := set.Products.List(ctx, models.ProductFilter{ActiveOnly: true})
	require.NoError(t, err)
	assert.Len(t, active, 3)
	for _, p := range active {
		assert.True(t, p.IsActive)
	}

	search, err := set.Products.List(ctx, models.ProductFilter{Search: "maqueta", ActiveOnly: true})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Maqueta Casa", "Figura"}, names(search))

	literal, err := set.Products.List(ctx, models.ProductFilter{Search: "50%"})
	require.NoError(t, err)
	assert.Equal(t, []string{"50% descuento"}, names(literal))

	byCategory, err := set.Products.List(ctx, models.ProductFilter{CategoryID: "c1"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Maqueta Casa", "Prototipo"}, names(byCategory))

	noPrefix, err := set.Products.List(ctx, models.ProductFilter{CategoryID: "c"})
	require.NoError(t, err)
	assert.Empty(t, noPrefix)
}

func TestGORMProductRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	set := newTestSet(t)

	product := &models.Product{Name: "Lámpara", Price: 35.5, CategoryIDs: []string{"c1"}, IsActive: true}
	require.NoError(t, set.Products.Create(ctx, product))
	assert.NotEmpty(t, product.ID)

	got, err := set.Products.GetByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"c1"}, got.CategoryIDs)

	got.IsActive = false
	got.Price = 0
	got.UpdatedAt = time.Now().UTC()
	require.NoError(t, set.Products.Update(ctx, got))

	reread, err := set.Products.GetByID(ctx, product.ID)
	require.NoError(t, err)
	assert.False(t, reread.IsActive)
	assert.Zero(t, reread.Price)

	err = set.Products.Update(ctx, &models.Product{ID: "missing", Name: "x"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	require.NoError(t, set.Products.Delete(ctx, product.ID))
	_, err = set.Products.GetByID(ctx, product.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.ErrorIs(t, set.Products.Delete(ctx, product.ID), apperrors.ErrNotFound)
}

func TestGORMProductRepository_RemoveCategory(t *testing.T) {
	ctx := context.Background()
	set := newTestSet(t)
	products := seedProducts(t, set.Products,
		models.Product{Name: "A", CategoryIDs: []string{"c1", "c2"}, IsActive: true},
		models.Product{Name: "B", CategoryIDs: []string{"c1"}, IsActive: false},
		models.Product{Name: "C", CategoryIDs: []string{"c2"}, IsActive: true},
	)

	affected, err := set.Products.RemoveCategory(ctx, "c1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, affected)

	remaining, err := set.Products.List(ctx, models.ProductFilter{CategoryID: "c1"})
	require.NoError(t, err)
	assert.Empty(t, remaining)

	a, err := set.Products.GetByID(ctx, products[0].ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"c2"}, a.CategoryIDs)

	b, err := set.Products.GetByID(ctx, products[1].ID)
	require.NoError(t, err)
	assert.Empty(t, b.CategoryIDs)
}

func TestGORMProductRepository_CategoryIDsWithJSONEscapes(t *testing.T) {
	ctx := context.Background()
	set := newTestSet(t)
	ids := []string{"a<b", "x&y", `q"z`, `back\slash`, "50%_off"}
	products := make([]models.Product, 0, len(ids))
	for _, id := range ids {
		products = append(products, models.Product{Name: id, CategoryIDs: []string{id, "keep"}, IsActive: true})
	}
	products = seedProducts(t, set.Products, products...)

	for i, id := range ids {
		found, err := set.Products.List(ctx, models.ProductFilter{CategoryID: id})
		require.NoError(t, err)
		require.Len(t, found, 1, id)
		assert.Equal(t, products[i].ID, found[0].ID)

		affected, err := set.Products.RemoveCategory(ctx, id)
		require.NoError(t, err)
		assert.EqualValues(t, 1, affected, id)

		after, err := set.Products.GetByID(ctx, products[i].ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"keep"}, after.CategoryIDs)
	}
}

func TestGORMCategoryRepository(t *testing.T) {
	ctx := context.Background()
	set := newTestSet(t)

	desc := "Maquetas"
	cat := &models.Category{Name: "Arquitectura", Slug: "arquitectura", Description: &desc}
	require.NoError(t, set.Categories.Create(ctx, cat))

	dup := &models.Category{Name: "arquitectura", Slug: "arquitectura"}
	assert.ErrorIs(t, set.Categories.Create(ctx, dup), apperrors.ErrConflict)

	bySlug, err := set.Categories.GetBySlug(ctx, "arquitectura")
	require.NoError(t, err)
	assert.Equal(t, cat.ID, bySlug.ID)
	require.NotNil(t, bySlug.Description)
	assert.Equal(t, "Maquetas", *bySlug.Description)

	other := &models.Category{Name: "Arte", Slug: "arte"}
	require.NoError(t, set.Categories.Create(ctx, other))

	found, err := set.Categories.GetByIDs(ctx, []string{cat.ID, "ghost"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, cat.ID, found[0].ID)

	none, err := set.Categories.GetByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, none)

	other.Slug = "arquitectura"
	assert.ErrorIs(t, set.Categories.Update(ctx, other), apperrors.ErrConflict)

	require.NoError(t, set.Categories.Delete(ctx, cat.ID))
	_, err = set.Categories.GetByID(ctx, cat.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.ErrorIs(t, set.Categories.Delete(ctx, cat.ID), apperrors.ErrNotFound)
}

func TestGORMUserRepository(t *testing.T) {
	ctx := context.Background()
	set := newTestSet(t)

	user := &models.User{Username: "admin", Email: "admin@example.com", Role: models.RoleAdmin, IsActive: true}
	require.NoError(t, set.Users.Create(ctx, user))
	assert.ErrorIs(t, set.Users.Create(ctx, &models.User{Username: "admin"}), apperrors.ErrConflict)

	byName, err := set.Users.GetByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)

	_, err = set.Users.GetByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestGORMContactRepository_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	set := newTestSet(t)

	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	for i, name := range []string{"first", "second", "third"} {
		s := &models.ContactSubmission{
			Name:      name,
			Email:     name + "@example.com",
			Status:    models.ContactStatusPending,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}
		require.NoError(t, set.Contacts.Create(ctx, s))
	}

	list, err := set.Contacts.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "third", list[0].Name)
	assert.Equal(t, "first", list[2].Name)

	got, err := set.Contacts.GetByID(ctx, list[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "second", got.Name)

	_, err = set.Contacts.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func names(products []models.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.Name)
	}
	return out
}
