package handlers

import (
	"errors"

	"orderhub/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/login", h.HandleLogin)
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

// HandleLogin checks the credentials and issues a token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := parseJSONBody(c, &req); err != nil {
		logrus.WithError(err).Debug("Error parsing login request body")
		return errorResponse(c, fiber.StatusBadRequest, err)
	}

	var email, password string
	if req.Email != nil {
		email = *req.Email
	}
	if req.Password != nil {
		password = *req.Password
	}

	token, err := h.authService.Login(c.UserContext(), email, password)
	switch {
	case err == nil:
		return c.JSON(fiber.Map{"token": token})
	case errors.Is(err, services.ErrUserNotFound):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "User not found"})
	case errors.Is(err, services.ErrInvalidCredentials):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid credentials"})
	default:
		logrus.WithError(err).Error("Error during login")
		return errorResponse(c, fiber.StatusInternalServerError, err)
	}
}
