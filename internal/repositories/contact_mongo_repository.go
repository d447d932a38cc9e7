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
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoContactRepository is a MongoDB implementation of ContactRepository.
type MongoContactRepository struct {
	coll *mongo.Collection
}

// NewMongoContactRepository creates a new instance of MongoContactRepository.
func NewMongoContactRepository(db *mongo.Database) *MongoContactRepository {
	return &MongoContactRepository{coll: db.Collection(ContactsCollection)}
}

// Create inserts a new submission document.
func (r *MongoContactRepository) Create(ctx context.Context, submission *models.ContactSubmission) error {
	if submission.ID == "" {
		submission.ID = uuid.New().String()
	}
	if _, err := r.coll.InsertOne(ctx, submission); err != nil {
		return fmt.Errorf("failed to create contact submission: %w", err)
	}
	return nil
}

// List returns the most recent submissions first.
func (r *MongoContactRepository) List(ctx context.Context) ([]models.ContactSubmission, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(ContactListLimit)
	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list contact submissions: %w", err)
	}
	submissions := []models.ContactSubmission{}
	if err := cur.All(ctx, &submissions); err != nil {
		return nil, fmt.Errorf("failed to decode contact submissions: %w", err)
	}
	return submissions, nil
}

// GetByID retrieves a submission by ID.
func (r *MongoContactRepository) GetByID(ctx context.Context, id string) (*models.ContactSubmission, error) {
	var submission models.ContactSubmission
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&submission); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("contact submission %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get contact submission %s: %w", id, err)
	}
	return &submission, nil
}
