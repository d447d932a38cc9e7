package handlers

import (
	"errors"
	"fmt"
	"log/slog"

	"printstudio/internal/apperrors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

const internalErrorDetail = "Internal server error"

// StatusFor maps an application error to its HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, apperrors.ErrConflict), errors.Is(err, apperrors.ErrUnsupportedFile):
		return fiber.StatusBadRequest
	case errors.Is(err, apperrors.ErrInvalidCredentials), errors.Is(err, apperrors.ErrInvalidToken):
		return fiber.StatusUnauthorized
	case errors.Is(err, apperrors.ErrAccountDisabled), errors.Is(err, apperrors.ErrForbidden),
		errors.Is(err, apperrors.ErrRegistrationDisabled):
		return fiber.StatusForbidden
	case errors.Is(err, apperrors.ErrValidation):
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}

// FieldError describes one failed validation rule.
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// ValidationError is returned by handlers when a request body or form fails validation.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(e.Fields))
}

func (e *ValidationError) Unwrap() error {
	return apperrors.ErrValidation
}

// newValidationError converts validator output into a ValidationError.
func newValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.WithDetail(fmt.Errorf("%w: %v", apperrors.ErrValidation, err), err.Error())
	}
	fields := make([]FieldError, 0, len(verrs))
	for _, e := range verrs {
		fields = append(fields, FieldError{
			Field:   e.Field(),
			Tag:     e.Tag(),
			Message: fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag()),
		})
	}
	return &ValidationError{Fields: fields}
}

// invalidInput wraps a parsing failure as a 422.
func invalidInput(detail string, err error) error {
	return apperrors.WithDetail(fmt.Errorf("%w: %v", apperrors.ErrValidation, err), detail)
}

// ErrorHandler renders every error that reaches Fiber as {"detail": ...}. Internal
// failures are logged and replaced by a generic message.
func ErrorHandler(log *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(fiber.Map{"detail": fe.Message})
		}

		var ve *ValidationError
		if errors.As(err, &ve) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"detail": "Validation failed",
				"errors": ve.Fields,
			})
		}

		status := StatusFor(err)
		if status == fiber.StatusInternalServerError {
			log.Error("request failed", "method", c.Method(), "path", c.Path(), "error", err)
			return c.Status(status).JSON(fiber.Map{"detail": internalErrorDetail})
		}
		return c.Status(status).JSON(fiber.Map{"detail": apperrors.Detail(err, defaultDetail(status))})
	}
}

func defaultDetail(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return "Not found"
	case fiber.StatusUnauthorized:
		return "Could not validate credentials"
	case fiber.StatusForbidden:
		return "Forbidden"
	case fiber.StatusUnprocessableEntity:
		return "Validation failed"
	default:
		return "Bad request"
	}
}
