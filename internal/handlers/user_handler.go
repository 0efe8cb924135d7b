package handlers

import (
	"orderhub/internal/models"
	"orderhub/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// UserHandler handles HTTP requests for users.
type UserHandler struct {
	service          *services.UserService
	hidePasswordHash bool
}

// NewUserHandler creates a new UserHandler. When hidePasswordHash is set the
// stored hash is left out of every response.
func NewUserHandler(service *services.UserService, hidePasswordHash bool) *UserHandler {
	return &UserHandler{
		service:          service,
		hidePasswordHash: hidePasswordHash,
	}
}

// RegisterRoutes registers the user routes with the Fiber app.
func (h *UserHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/users", h.HandleGetUsers)
	router.Post("/users", h.HandleCreateUser)
}

// CreateUserRequest represents the request body for registration.
// Absent fields are stored as NULL.
type CreateUserRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

// HandleGetUsers lists every user.
func (h *UserHandler) HandleGetUsers(c *fiber.Ctx) error {
	users, err := h.service.ListUsers(c.UserContext())
	if err != nil {
		logrus.WithError(err).Error("Error getting users")
		return errorResponse(c, fiber.StatusInternalServerError, err)
	}

	if users == nil {
		users = []models.User{}
	}
	if h.hidePasswordHash {
		for i := range users {
			users[i].Password = ""
		}
	}
	return c.JSON(users)
}

// HandleCreateUser registers a new user.
func (h *UserHandler) HandleCreateUser(c *fiber.Ctx) error {
	var req CreateUserRequest
	if err := parseJSONBody(c, &req); err != nil {
		logrus.WithError(err).Debug("Error parsing register request body")
		return errorResponse(c, fiber.StatusBadRequest, err)
	}

	user, err := h.service.RegisterUser(c.UserContext(), req.Name, req.Email, req.Password)
	if err != nil {
		logrus.WithError(err).Error("Error registering user")
		return errorResponse(c, fiber.StatusInternalServerError, err)
	}

	if h.hidePasswordHash {
		user.Password = ""
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}
