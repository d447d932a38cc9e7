package handlers

import (
	"printstudio/internal/models"
	"printstudio/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CategoryHandler handles HTTP requests for categories.
type CategoryHandler struct {
	service  *services.CategoryService
	validate *validator.Validate
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(service *services.CategoryService, validate *validator.Validate) *CategoryHandler {
	return &CategoryHandler{
		service:  service,
		validate: validate,
	}
}

// RegisterRoutes registers the category routes. Mutations go through admin.
func (h *CategoryHandler) RegisterRoutes(router fiber.Router, admin fiber.Handler) {
	categoryRoutes := router.Group("/categories")
	categoryRoutes.Get("/", h.HandleGetCategories)
	categoryRoutes.Get("/:id", h.HandleGetCategory)
	categoryRoutes.Post("/", admin, h.HandleCreateCategory)
	categoryRoutes.Put("/:id", admin, h.HandleUpdateCategory)
	categoryRoutes.Delete("/:id", admin, h.HandleDeleteCategory)
}

// HandleGetCategories lists every category.
func (h *CategoryHandler) HandleGetCategories(c *fiber.Ctx) error {
	categories, err := h.service.ListCategories(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(categories)
}

// HandleGetCategory retrieves a single category by its ID.
func (h *CategoryHandler) HandleGetCategory(c *fiber.Ctx) error {
	category, err := h.service.GetCategory(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(category)
}

// HandleCreateCategory creates a category, deriving its slug from the name.
func (h *CategoryHandler) HandleCreateCategory(c *fiber.Ctx) error {
	var in models.CategoryCreate
	if err := c.BodyParser(&in); err != nil {
		return invalidInput("Invalid request body", err)
	}
	if err := h.validate.Struct(in); err != nil {
		return newValidationError(err)
	}

	category, err := h.service.CreateCategory(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.JSON(category)
}

// HandleUpdateCategory applies a partial update.
func (h *CategoryHandler) HandleUpdateCategory(c *fiber.Ctx) error {
	var in models.CategoryUpdate
	if err := c.BodyParser(&in); err != nil {
		return invalidInput("Invalid request body", err)
	}
	if err := h.validate.Struct(in); err != nil {
		return newValidationError(err)
	}

	category, err := h.service.UpdateCategory(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(category)
}

// HandleDeleteCategory deletes a category and detaches it from products.
func (h *CategoryHandler) HandleDeleteCategory(c *fiber.Ctx) error {
	if err := h.service.DeleteCategory(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Category deleted successfully"})
}
