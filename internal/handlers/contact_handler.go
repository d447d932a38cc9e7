package handlers

import (
	"fmt"
	"mime/multipart"

	"printstudio/internal/models"
	"printstudio/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ContactHandler handles the public contact form.
type ContactHandler struct {
	service  *services.ContactService
	validate *validator.Validate
}

// NewContactHandler creates a new ContactHandler.
func NewContactHandler(service *services.ContactService, validate *validator.Validate) *ContactHandler {
	return &ContactHandler{
		service:  service,
		validate: validate,
	}
}

// RegisterRoutes registers the contact routes. limiter guards submissions.
func (h *ContactHandler) RegisterRoutes(router fiber.Router, limiter fiber.Handler) {
	contactRoutes := router.Group("/contact")
	contactRoutes.Post("/", limiter, h.HandleSubmit)
	contactRoutes.Get("/", h.HandleGetSubmissions)
	contactRoutes.Get("/:id", h.HandleGetSubmission)
}

func contactFormFrom(c *fiber.Ctx) models.ContactForm {
	form := models.ContactForm{
		Name:        c.FormValue("name"),
		Email:       c.FormValue("email"),
		ServiceType: c.FormValue("service_type"),
		Message:     c.FormValue("message"),
	}
	if phone := c.FormValue("phone"); phone != "" {
		form.Phone = &phone
	}
	return form
}

// HandleSubmit stores a contact submission with its optional design file.
func (h *ContactHandler) HandleSubmit(c *fiber.Ctx) error {
	form := contactFormFrom(c)
	if err := h.validate.Struct(form); err != nil {
		return newValidationError(err)
	}

	var upload *services.Upload
	if fh, err := c.FormFile("file"); err == nil && fh.Filename != "" {
		// Reject the extension before the part is opened.
		if err := services.CheckUploadName(fh.Filename); err != nil {
			return err
		}
		f, err := fh.Open()
		if err != nil {
			return fmt.Errorf("failed to open upload: %w", err)
		}
		defer func(f multipart.File) { _ = f.Close() }(f)
		upload = &services.Upload{Filename: fh.Filename, Content: f}
	}

	submission, err := h.service.Submit(c.UserContext(), form, upload)
	if err != nil {
		return err
	}
	return c.JSON(submission.ToResponse())
}

// HandleGetSubmissions lists the latest submissions, newest first.
func (h *ContactHandler) HandleGetSubmissions(c *fiber.Ctx) error {
	submissions, err := h.service.ListSubmissions(c.UserContext())
	if err != nil {
		return err
	}
	out := make([]models.ContactResponse, 0, len(submissions))
	for i := range submissions {
		out = append(out, submissions[i].ToResponse())
	}
	return c.JSON(out)
}

// HandleGetSubmission retrieves a single submission.
func (h *ContactHandler) HandleGetSubmission(c *fiber.Ctx) error {
	submission, err := h.service.GetSubmission(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(submission.ToResponse())
}
