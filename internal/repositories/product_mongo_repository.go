package repositories

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"printstudio/internal/apperrors"
	"printstudio/internal/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoProductRepository is a MongoDB implementation of ProductRepository.
type MongoProductRepository struct {
	coll *mongo.Collection
}

// NewMongoProductRepository creates a new instance of MongoProductRepository.
func NewMongoProductRepository(db *mongo.Database) *MongoProductRepository {
	return &MongoProductRepository{coll: db.Collection(ProductsCollection)}
}

// productQuery translates filter into a Mongo query document.
func productQuery(filter models.ProductFilter) bson.M {
	query := bson.M{}
	if filter.ActiveOnly {
		query["is_active"] = true
	}
	if filter.Search != "" {
		pattern := bson.M{"$regex": regexp.QuoteMeta(filter.Search), "$options": "i"}
		query["$or"] = bson.A{
			bson.M{"name": pattern},
			bson.M{"description": pattern},
		}
	}
	if filter.CategoryID != "" {
		query["category_ids"] = filter.CategoryID
	}
	return query
}

// List retrieves the products matching filter.
func (r *MongoProductRepository) List(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	cur, err := r.coll.Find(ctx, productQuery(filter))
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	products := []models.Product{}
	if err := cur.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, nil
}

// GetByID retrieves a product by ID.
func (r *MongoProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&product); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("product with ID %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	return &product, nil
}

// Create inserts a new product document.
func (r *MongoProductRepository) Create(ctx context.Context, product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if _, err := r.coll.InsertOne(ctx, product); err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update replaces an existing product document.
func (r *MongoProductRepository) Update(ctx context.Context, product *models.Product) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": product.ID}, product)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("product with ID %s: %w", product.ID, apperrors.ErrNotFound)
	}
	return nil
}

// Delete removes a product document.
func (r *MongoProductRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("product with ID %s: %w", id, apperrors.ErrNotFound)
	}
	return nil
}

// RemoveCategory pulls categoryID out of every product's category list.
func (r *MongoProductRepository) RemoveCategory(ctx context.Context, categoryID string) (int64, error) {
	res, err := r.coll.UpdateMany(ctx,
		bson.M{"category_ids": categoryID},
		bson.M{
			"$pull": bson.M{"category_ids": categoryID},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return 0, fmt.Errorf("failed to remove category %s from products: %w", categoryID, err)
	}
	return res.ModifiedCount, nil
}
