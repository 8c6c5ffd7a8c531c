// Package server assembles the storefront Fiber application.
package server

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"storefront/internal/auth"
	"storefront/internal/database"
	"storefront/internal/handlers"
	"storefront/internal/middleware"
	"storefront/internal/repositories"
	"storefront/internal/services"
)

// Dependencies are the collaborators the application is built from.
type Dependencies struct {
	DB     *gorm.DB
	Hasher auth.PasswordHasher
	Tokens auth.TokenCodec
	Events services.EventPublisher // optional
	Log    zerolog.Logger
}

// New builds the Fiber app with every route registered.
func New(deps Dependencies) *fiber.App {
	// --- Repositories ---
	userRepo := repositories.NewGORMUserRepository(deps.DB)
	productRepo := repositories.NewGORMProductRepository(deps.DB)
	orderRepo := repositories.NewGORMOrderRepository(deps.DB)

	// --- Services ---
	authService := services.NewAuthService(userRepo, deps.Hasher, deps.Tokens, deps.Log)
	productService := services.NewProductService(productRepo)
	orderService := services.NewOrderService(orderRepo, productRepo, deps.Events, deps.Log)

	// --- Handlers ---
	userHandler := handlers.NewUserHandler(authService)
	productHandler := handlers.NewProductHandler(productService)
	orderHandler := handlers.NewOrderHandler(orderService)
	healthHandler := handlers.NewHealthHandler(func(ctx context.Context) error {
		return database.Ping(ctx, deps.DB)
	})

	app := fiber.New(fiber.Config{
		AppName:               "storefront",
		DisableStartupMessage: true,
		ErrorHandler:          handlers.ErrorHandler(deps.Log),
	})

	// --- Middleware ---
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(middleware.Metrics())
	app.Use(middleware.AccessLog(deps.Log))
	app.Use(recover.New())

	// Probes are registered ahead of identity resolution so a stale token
	// cannot fail them.
	app.Get("/health", healthHandler.HandleHealth)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	app.Use(middleware.ResolveUser(authService))

	// --- API Routes ---
	userHandler.RegisterRoutes(app)
	productHandler.RegisterRoutes(app)
	orderHandler.RegisterRoutes(app)

	return app
}
