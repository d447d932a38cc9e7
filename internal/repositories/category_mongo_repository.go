package repositories

import (
	"context"
	"errors"
	"fmt"

	"printstudio/internal/apperrors"
	"printstudio/internal/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoCategoryRepository is a MongoDB implementation of CategoryRepository.
type MongoCategoryRepository struct {
	coll *mongo.Collection
}

// NewMongoCategoryRepository creates a new instance of MongoCategoryRepository.
func NewMongoCategoryRepository(db *mongo.Database) *MongoCategoryRepository {
	return &MongoCategoryRepository{coll: db.Collection(CategoriesCollection)}
}

// GetAll retrieves every category in natural order.
func (r *MongoCategoryRepository) GetAll(ctx context.Context) ([]models.Category, error) {
	return r.find(ctx, bson.M{})
}

// GetByID retrieves a category by ID.
func (r *MongoCategoryRepository) GetByID(ctx context.Context, id string) (*models.Category, error) {
	return r.findOne(ctx, bson.M{"_id": id}, id)
}

// GetBySlug retrieves a category by slug.
func (r *MongoCategoryRepository) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	return r.findOne(ctx, bson.M{"slug": slug}, slug)
}

// GetByIDs retrieves the categories whose IDs appear in ids.
func (r *MongoCategoryRepository) GetByIDs(ctx context.Context, ids []string) ([]models.Category, error) {
	if len(ids) == 0 {
		return []models.Category{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

// Create inserts a new category document.
func (r *MongoCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	if _, err := r.coll.InsertOne(ctx, category); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("slug %s: %w", category.Slug, apperrors.ErrConflict)
		}
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

// Update replaces an existing category document.
func (r *MongoCategoryRepository) Update(ctx context.Context, category *models.Category) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": category.ID}, category)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("slug %s: %w", category.Slug, apperrors.ErrConflict)
		}
		return fmt.Errorf("failed to update category: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("category %s: %w", category.ID, apperrors.ErrNotFound)
	}
	return nil
}

// Delete removes a category document.
func (r *MongoCategoryRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("category %s: %w", id, apperrors.ErrNotFound)
	}
	return nil
}

func (r *MongoCategoryRepository) find(ctx context.Context, filter bson.M) ([]models.Category, error) {
	cur, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	categories := []models.Category{}
	if err := cur.All(ctx, &categories); err != nil {
		return nil, fmt.Errorf("failed to decode categories: %w", err)
	}
	return categories, nil
}

func (r *MongoCategoryRepository) findOne(ctx context.Context, filter bson.M, key string) (*models.Category, error) {
	var category models.Category
	if err := r.coll.FindOne(ctx, filter).Decode(&category); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("category %s: %w", key, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get category %s: %w", key, err)
	}
	return &category, nil
}
