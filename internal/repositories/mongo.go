package repositories

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names used in the document store.
const (
	UsersCollection      = "users"
	CategoriesCollection = "categories"
	ProductsCollection   = "products"
	ContactsCollection   = "contact_submissions"
)

// NewMongoSet returns Mongo-backed repositories on db, creating the unique indexes they rely on.
func NewMongoSet(ctx context.Context, db *mongo.Database) (*Set, error) {
	indexes := []struct {
		collection string
		field      string
		unique     bool
	}{
		{UsersCollection, "username", true},
		{CategoriesCollection, "slug", true},
		{ProductsCollection, "category_ids", false},
		{ContactsCollection, "created_at", false},
	}
	for _, idx := range indexes {
		model := mongo.IndexModel{
			Keys:    bson.D{{Key: idx.field, Value: 1}},
			Options: options.Index().SetUnique(idx.unique),
		}
		if _, err := db.Collection(idx.collection).Indexes().CreateOne(ctx, model); err != nil {
			return nil, fmt.Errorf("failed to create index on %s.%s: %w", idx.collection, idx.field, err)
		}
	}
	return &Set{
		Users:      NewMongoUserRepository(db),
		Categories: NewMongoCategoryRepository(db),
		Products:   NewMongoProductRepository(db),
		Contacts:   NewMongoContactRepository(db),
	}, nil
}
