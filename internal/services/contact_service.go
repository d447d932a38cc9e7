package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"printstudio/internal/apperrors"
	"printstudio/internal/models"
	"printstudio/internal/repositories"
	"printstudio/internal/storage"
	"printstudio/pkg/rabbitmq"

	"github.com/google/uuid"
)

// AllowedUploadExtensions lists the 3D model formats the contact form accepts.
var AllowedUploadExtensions = []string{".stl", ".obj", ".3mf", ".step", ".stp"}

// ContactSubmittedEvent is published once a submission is stored.
const ContactSubmittedEvent = "contact.submitted"

// EventPublisher sends JSON events to a named queue.
type EventPublisher interface {
	Publish(queue string, payload any) error
}

// ContactEvent is the message body of a ContactSubmittedEvent.
type ContactEvent struct {
	Event       string    `json:"event"`
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	ServiceType string    `json:"service_type"`
	FileName    *string   `json:"file_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Upload is a file attached to a contact submission.
type Upload struct {
	Filename string
	Content  io.Reader
}

// ContactService handles contact form submissions.
type ContactService struct {
	repo      repositories.ContactRepository
	files     storage.FileStore
	publisher EventPublisher
	log       *slog.Logger
}

// NewContactService creates a new ContactService. publisher may be nil.
func NewContactService(repo repositories.ContactRepository, files storage.FileStore, publisher EventPublisher, log *slog.Logger) *ContactService {
	return &ContactService{
		repo:      repo,
		files:     files,
		publisher: publisher,
		log:       log,
	}
}

// CheckUploadName rejects file names whose extension is not an accepted model format.
func CheckUploadName(filename string) error {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range AllowedUploadExtensions {
		if ext == allowed {
			return nil
		}
	}
	detail := fmt.Sprintf("File type %s not allowed. Allowed types: %s", ext, strings.Join(AllowedUploadExtensions, ", "))
	return apperrors.WithDetail(fmt.Errorf("%w: %q", apperrors.ErrUnsupportedFile, ext), detail)
}

// uploadBaseName keeps only the final path element of a client-supplied file name.
func uploadBaseName(filename string) string {
	return filepath.Base(strings.ReplaceAll(filename, `\`, "/"))
}

// Submit stores a contact submission and its optional upload, then announces it.
func (s *ContactService) Submit(ctx context.Context, form models.ContactForm, upload *Upload) (*models.ContactSubmission, error) {
	submission := &models.ContactSubmission{
		ID:          uuid.New().String(),
		Name:        form.Name,
		Email:       form.Email,
		Phone:       form.Phone,
		ServiceType: form.ServiceType,
		Message:     form.Message,
		Status:      models.ContactStatusPending,
		CreatedAt:   time.Now().UTC(),
	}

	if upload != nil {
		if err := CheckUploadName(upload.Filename); err != nil {
			return nil, err
		}
		name := submission.ID + "_" + uploadBaseName(upload.Filename)
		path, err := s.files.Save(name, upload.Content)
		if err != nil {
			return nil, fmt.Errorf("failed to store upload: %w", err)
		}
		submission.FileName = &name
		submission.FilePath = &path
		s.log.Info("upload saved", "path", path)
	}

	if err := s.repo.Create(ctx, submission); err != nil {
		if submission.FilePath != nil {
			if rmErr := s.files.Remove(*submission.FilePath); rmErr != nil {
				s.log.Error("failed to remove orphaned upload", "path", *submission.FilePath, "error", rmErr)
			}
		}
		return nil, err
	}
	s.log.Info("contact submission created", "id", submission.ID)

	s.announce(submission)
	return submission, nil
}

func (s *ContactService) announce(submission *models.ContactSubmission) {
	if s.publisher == nil {
		return
	}
	event := ContactEvent{
		Event:       ContactSubmittedEvent,
		ID:          submission.ID,
		Name:        submission.Name,
		Email:       submission.Email,
		ServiceType: submission.ServiceType,
		FileName:    submission.FileName,
		CreatedAt:   submission.CreatedAt,
	}
	if err := s.publisher.Publish(rabbitmq.ContactQueue, event); err != nil {
		s.log.Warn("failed to publish contact event", "id", submission.ID, "error", err)
	}
}

// ListSubmissions returns the latest submissions, newest first.
func (s *ContactService) ListSubmissions(ctx context.Context) ([]models.ContactSubmission, error) {
	return s.repo.List(ctx)
}

// GetSubmission returns a single submission.
func (s *ContactService) GetSubmission(ctx context.Context, id string) (*models.ContactSubmission, error) {
	submission, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundDetail(err, "Submission not found")
	}
	return submission, nil
}
