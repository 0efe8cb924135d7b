package main

import (
	"orderhub/internal/handlers"
	"orderhub/internal/middleware"
	"orderhub/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// appDeps are the collaborators the HTTP layer is built from.
type appDeps struct {
	db               *gorm.DB
	authService      *services.AuthService
	userService      *services.UserService
	orderService     *services.OrderService
	hidePasswordHash bool
}

// newApp builds the Fiber app with middleware and all routes registered.
func newApp(deps appDeps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "orderhub",
	})

	// --- Middleware ---
	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		Output: logrus.StandardLogger().Writer(),
	}))

	// --- Health Check Endpoint ---
	handlers.NewHealthHandler(deps.db).RegisterRoutes(app)

	// --- API Routes ---
	api := app.Group("/api")
	handlers.NewUserHandler(deps.userService, deps.hidePasswordHash).RegisterRoutes(api)
	handlers.NewAuthHandler(deps.authService).RegisterRoutes(api)
	handlers.NewOrderHandler(deps.orderService).RegisterRoutes(api, middleware.AuthRequired(deps.authService))

	return app
}
