package repositories

import (
	"context"

	"orderhub/internal/models"
)

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	Create(ctx context.Context, userID int64, product *string, amount *models.Money) (*models.Order, error)
	GetByUser(ctx context.Context, userID int64) ([]models.OrderSummary, error)
	// TotalByUser returns nil when the user has no orders.
	TotalByUser(ctx context.Context, userID int64) (*models.Money, error)
}
