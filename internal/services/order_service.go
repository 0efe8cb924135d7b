package services

import (
	"context"
	"fmt"

	"orderhub/internal/models"
	"orderhub/internal/repositories"
	"orderhub/pkg/rabbitmq"

	"github.com/sirupsen/logrus"
)

// OrderEventPublisher publishes order lifecycle events to a broker.
type OrderEventPublisher interface {
	PublishOrderCreated(event rabbitmq.OrderCreatedEvent) error
}

// OrderService handles business logic related to orders.
type OrderService struct {
	orderRepo repositories.OrderRepository
	publisher OrderEventPublisher
}

// NewOrderService creates a new OrderService. publisher may be nil, in which
// case no events are emitted.
func NewOrderService(orderRepo repositories.OrderRepository, publisher OrderEventPublisher) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		publisher: publisher,
	}
}

// CreateOrder stores an order for userID and announces it on the broker.
// A publish failure is logged and does not fail the order.
func (s *OrderService) CreateOrder(ctx context.Context, userID int64, product *string, amount *models.Money) (*models.Order, error) {
	order, err := s.orderRepo.Create(ctx, userID, product, amount)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	log := logrus.WithFields(logrus.Fields{
		"order_id": order.ID,
		"user_id":  order.UserID,
	})
	log.Info("Order created")

	if s.publisher == nil {
		return order, nil
	}

	var amountText *string
	if order.Amount != nil {
		text := order.Amount.String()
		amountText = &text
	}
	event := rabbitmq.NewOrderCreatedEvent(order.ID, order.UserID, order.Product, amountText)
	if err := s.publisher.PublishOrderCreated(event); err != nil {
		log.WithError(err).Warn("Failed to publish order created event")
	}

	return order, nil
}

// GetOrdersForUser lists the orders placed by userID.
func (s *OrderService) GetOrdersForUser(ctx context.Context, userID int64) ([]models.OrderSummary, error) {
	return s.orderRepo.GetByUser(ctx, userID)
}

// GetTotalSpent sums the order amounts of userID; nil means no orders.
func (s *OrderService) GetTotalSpent(ctx context.Context, userID int64) (*models.Money, error) {
	return s.orderRepo.TotalByUser(ctx, userID)
}
