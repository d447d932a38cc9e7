package middleware

import (
	"strings"

	"printstudio/internal/apperrors"
	"printstudio/internal/models"
	"printstudio/internal/services"

	"github.com/gofiber/fiber/v2"
)

// UserKey is the fiber.Ctx Locals key holding the authenticated *models.User.
const UserKey = "user"

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(header string) (string, error) {
	if header == "" {
		return "", apperrors.WithDetail(apperrors.ErrInvalidToken, "Not authenticated")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", apperrors.WithDetail(apperrors.ErrInvalidToken, "Authorization header format must be 'Bearer <token>'")
	}
	return strings.TrimSpace(parts[1]), nil
}

// AdminRequired verifies the bearer token, re-reads the user and rejects non-admins.
// Failures are returned to the app's error handler.
func AdminRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := authenticate(c, authService)
		if err != nil {
			return err
		}
		if _, err := authService.RequireAdmin(user); err != nil {
			return err
		}
		c.Locals(UserKey, user)
		return c.Next()
	}
}

func authenticate(c *fiber.Ctx, authService *services.AuthService) (*models.User, error) {
	tokenString, err := BearerToken(c.Get(fiber.HeaderAuthorization))
	if err != nil {
		return nil, err
	}
	return authService.Verify(c.UserContext(), tokenString)
}
