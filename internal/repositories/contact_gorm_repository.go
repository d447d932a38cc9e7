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

// GORMContactRepository is a GORM implementation of ContactRepository.
type GORMContactRepository struct {
	db *gorm.DB
}

// NewGORMContactRepository creates a new instance of GORMContactRepository.
func NewGORMContactRepository(db *gorm.DB) *GORMContactRepository {
	return &GORMContactRepository{db: db}
}

// Create stores a new submission.
func (r *GORMContactRepository) Create(ctx context.Context, submission *models.ContactSubmission) error {
	if submission.ID == "" {
		submission.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(submission).Error; err != nil {
		return fmt.Errorf("failed to create contact submission: %w", err)
	}
	return nil
}

// List returns the most recent submissions first.
func (r *GORMContactRepository) List(ctx context.Context) ([]models.ContactSubmission, error) {
	var submissions []models.ContactSubmission
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(ContactListLimit).
		Find(&submissions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list contact submissions: %w", err)
	}
	return submissions, nil
}

// GetByID retrieves a submission by its ID.
func (r *GORMContactRepository) GetByID(ctx context.Context, id string) (*models.ContactSubmission, error) {
	var submission models.ContactSubmission
	if err := r.db.WithContext(ctx).First(&submission, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("contact submission %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get contact submission %s: %w", id, err)
	}
	return &submission, nil
}
