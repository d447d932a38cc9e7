package models

import "time"

// ContactStatusPending is the status of every new submission.
const ContactStatusPending = "pending"

// ContactSubmission is a message left through the contact form.
type ContactSubmission struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)" bson:"_id"`
	Name        string    `json:"name" bson:"name"`
	Email       string    `json:"email" bson:"email"`
	Phone       *string   `json:"phone" bson:"phone"`
	ServiceType string    `json:"service_type" bson:"service_type"`
	Message     string    `json:"message" bson:"message"`
	FileName    *string   `json:"file_name" bson:"file_name"`
	FilePath    *string   `json:"file_path" bson:"file_path"`
	Status      string    `json:"status" gorm:"type:varchar(20)" bson:"status"`
	CreatedAt   time.Time `json:"created_at" gorm:"index" bson:"created_at"`
}

// ContactForm holds the text fields of a contact submission.
type ContactForm struct {
	Name        string  `form:"name" validate:"required"`
	Email       string  `form:"email" validate:"required,email"`
	Phone       *string `form:"phone"`
	ServiceType string  `form:"service_type" validate:"required"`
	Message     string  `form:"message" validate:"required"`
}

// ContactResponse is the summary returned to callers.
type ContactResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	ServiceType string    `json:"service_type"`
	Message     string    `json:"message"`
	CreatedAt   time.Time `json:"created_at"`
	Status      string    `json:"status"`
}

// ToResponse builds the caller-facing summary.
func (s *ContactSubmission) ToResponse() ContactResponse {
	return ContactResponse{
		ID:          s.ID,
		Name:        s.Name,
		Email:       s.Email,
		ServiceType: s.ServiceType,
		Message:     s.Message,
		CreatedAt:   s.CreatedAt,
		Status:      s.Status,
	}
}
