package handlers

import (
	"printstudio/internal/apperrors"
	"printstudio/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, validate *validator.Validate) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validate,
	}
}

// RegisterRoutes registers the authentication routes. limiter guards the login route.
func (h *AuthHandler) RegisterRoutes(router fiber.Router, limiter fiber.Handler) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/login", limiter, h.HandleLogin)
	authRoutes.Post("/register", h.HandleRegister)
	authRoutes.Get("/me", h.HandleMe)
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin checks credentials and issues an access token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidInput("Invalid request body", err)
	}
	if err := h.validate.Struct(req); err != nil {
		return newValidationError(err)
	}

	result, err := h.authService.Authenticate(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"access_token": result.Token,
		"token_type":   "bearer",
		"user":         result.User.ToResponse(),
	})
}

// HandleRegister always refuses: accounts are provisioned by operators.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	return apperrors.WithDetail(apperrors.ErrRegistrationDisabled,
		"Registration is currently disabled. Please contact administrator.")
}

// HandleMe resolves the token query parameter to the current user.
func (h *AuthHandler) HandleMe(c *fiber.Ctx) error {
	token := c.Query("token")
	if token == "" {
		return apperrors.WithDetail(apperrors.ErrInvalidToken, "Invalid token")
	}
	user, err := h.authService.Verify(c.UserContext(), token)
	if err != nil {
		return err
	}
	return c.JSON(user.ToResponse())
}
