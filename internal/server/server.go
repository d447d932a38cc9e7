// Package server assembles the Fiber application from configured services.
package server

import (
	"io"
	"log/slog"
	"os"
	"time"

	"printstudio/internal/config"
	"printstudio/internal/handlers"
	"printstudio/internal/middleware"
	"printstudio/internal/repositories"
	"printstudio/internal/services"
	"printstudio/internal/storage"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
)

// Deps are the collaborators the application is built from. Publisher and Redis may be nil.
type Deps struct {
	Repos     *repositories.Set
	Files     storage.FileStore
	Publisher services.EventPublisher
	Redis     *redis.Client
	Log       *slog.Logger
	AccessLog io.Writer
}

// Services bundles the business services built by New.
type Services struct {
	Auth       *services.AuthService
	Categories *services.CategoryService
	Products   *services.ProductService
	Contacts   *services.ContactService
}

// NewServices wires the business services over deps.
func NewServices(cfg *config.Config, deps Deps) *Services {
	return &Services{
		Auth:       services.NewAuthService(deps.Repos.Users, cfg.SecretKey),
		Categories: services.NewCategoryService(deps.Repos.Categories, deps.Repos.Products, deps.Log),
		Products:   services.NewProductService(deps.Repos.Products, deps.Repos.Categories),
		Contacts:   services.NewContactService(deps.Repos.Contacts, deps.Files, deps.Publisher, deps.Log),
	}
}

// New builds the Fiber app with every route mounted under cfg.APIPrefix.
func New(cfg *config.Config, deps Deps) *fiber.App {
	svc := NewServices(cfg, deps)
	validate := validator.New()

	app := fiber.New(fiber.Config{
		AppName:      "printstudio",
		ErrorHandler: handlers.ErrorHandler(deps.Log),
		BodyLimit:    50 * 1024 * 1024,
	})

	accessLog := deps.AccessLog
	if accessLog == nil {
		accessLog = os.Stdout
	}
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{Output: accessLog}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "healthy",
			"time":      time.Now().Format(time.RFC3339),
			"events":    deps.Publisher != nil,
			"ratelimit": deps.Redis != nil,
		})
	})

	api := app.Group(cfg.APIPrefix)
	api.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "Hello World"})
	})

	limiter := middleware.RateLimit(cfg.RateLimit, deps.Redis, deps.Log)
	admin := middleware.AdminRequired(svc.Auth)

	handlers.NewAuthHandler(svc.Auth, validate).RegisterRoutes(api, limiter)
	handlers.NewCategoryHandler(svc.Categories, validate).RegisterRoutes(api, admin)
	handlers.NewProductHandler(svc.Products, validate).RegisterRoutes(api, admin)
	handlers.NewContactHandler(svc.Contacts, validate).RegisterRoutes(api, limiter)

	return app
}
