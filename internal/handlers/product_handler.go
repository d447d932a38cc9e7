package handlers

import (
	"strconv"

	"printstudio/internal/models"
	"printstudio/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService, validate *validator.Validate) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: validate,
	}
}

// RegisterRoutes registers the product routes. Mutations go through admin.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, admin fiber.Handler) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Post("/", admin, h.HandleCreateProduct)
	productRoutes.Put("/:id", admin, h.HandleUpdateProduct)
	productRoutes.Delete("/:id", admin, h.HandleDeleteProduct)
}

// HandleGetProducts lists products, filtered by search, category_id and active_only.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	filter := models.ProductFilter{
		Search:     c.Query("search"),
		CategoryID: c.Query("category_id"),
		ActiveOnly: true,
	}
	if raw := c.Query("active_only"); raw != "" {
		activeOnly, err := strconv.ParseBool(raw)
		if err != nil {
			return invalidInput("active_only must be a boolean", err)
		}
		filter.ActiveOnly = activeOnly
	}

	products, err := h.service.ListProducts(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(products)
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	product, err := h.service.GetProductByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(product)
}

// HandleCreateProduct creates a new product.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var in models.ProductCreate
	if err := c.BodyParser(&in); err != nil {
		return invalidInput("Invalid request body", err)
	}
	if err := h.validate.Struct(in); err != nil {
		return newValidationError(err)
	}

	product, err := h.service.CreateProduct(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.JSON(product)
}

// HandleUpdateProduct applies a partial update.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	var in models.ProductUpdate
	if err := c.BodyParser(&in); err != nil {
		return invalidInput("Invalid request body", err)
	}
	if err := h.validate.Struct(in); err != nil {
		return newValidationError(err)
	}

	product, err := h.service.UpdateProduct(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(product)
}

// HandleDeleteProduct deletes a product by its ID.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	if err := h.service.DeleteProduct(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Product deleted successfully"})
}
