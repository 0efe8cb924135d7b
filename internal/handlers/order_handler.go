package handlers

import (
	"errors"

	"orderhub/internal/middleware"
	"orderhub/internal/models"
	"orderhub/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

var errNoUser = errors.New("no authenticated user")

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service *services.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service: service,
	}
}

// RegisterRoutes registers the order routes behind auth.
func (h *OrderHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	orderRoutes := router.Group("/orders", auth)
	orderRoutes.Post("", h.HandleCreateOrder)
	orderRoutes.Get("", h.HandleGetOrders)
	orderRoutes.Get("/total", h.HandleGetTotal)
}

// CreateOrderRequest represents the request body for a new order.
type CreateOrderRequest struct {
	Product *string       `json:"product"`
	Amount  *models.Money `json:"amount"`
}

// HandleCreateOrder stores an order for the authenticated user.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		return errorResponse(c, fiber.StatusBadRequest, errNoUser)
	}

	var req CreateOrderRequest
	if err := parseJSONBody(c, &req); err != nil {
		logrus.WithError(err).Debug("Error parsing order request body")
		return errorResponse(c, fiber.StatusBadRequest, err)
	}

	order, err := h.service.CreateOrder(c.UserContext(), userID, req.Product, req.Amount)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"user_id": userID,
			"error":   err.Error(),
		}).Error("Error creating order")
		return errorResponse(c, fiber.StatusBadRequest, err)
	}
	return c.JSON(order)
}

// HandleGetOrders lists the authenticated user's orders.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		return errorResponse(c, fiber.StatusBadRequest, errNoUser)
	}

	orders, err := h.service.GetOrdersForUser(c.UserContext(), userID)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"user_id": userID,
			"error":   err.Error(),
		}).Error("Error getting orders")
		return errorResponse(c, fiber.StatusBadRequest, err)
	}
	if orders == nil {
		orders = []models.OrderSummary{}
	}
	return c.JSON(orders)
}

// HandleGetTotal returns the sum of the authenticated user's order amounts.
func (h *OrderHandler) HandleGetTotal(c *fiber.Ctx) error {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		return errorResponse(c, fiber.StatusBadRequest, errNoUser)
	}

	total, err := h.service.GetTotalSpent(c.UserContext(), userID)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"user_id": userID,
			"error":   err.Error(),
		}).Error("Error getting order total")
		return errorResponse(c, fiber.StatusBadRequest, err)
	}
	return c.JSON(fiber.Map{"total_spent": total})
}
