package repositories

import (
	"context"

	"printstudio/internal/models"
)

// ContactListLimit caps how many submissions a listing returns.
const ContactListLimit = 100

// ContactRepository defines the interface for contact submission data access.
type ContactRepository interface {
	Create(ctx context.Context, submission *models.ContactSubmission) error
	// List returns the newest submissions first, at most ContactListLimit of them.
	List(ctx context.Context) ([]models.ContactSubmission, error)
	GetByID(ctx context.Context, id string) (*models.ContactSubmission, error)
}
