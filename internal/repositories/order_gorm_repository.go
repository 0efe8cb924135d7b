package repositories

import (
	"context"
	"errors"

	"orderhub/internal/models"

	"gorm.io/gorm"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

// Create inserts an order for userID and returns the stored row.
func (r *GORMOrderRepository) Create(ctx context.Context, userID int64, product *string, amount *models.Money) (*models.Order, error) {
	rows, err := r.db.WithContext(ctx).Raw(
		`INSERT INTO orders (user_id, product, amount) VALUES (?, ?, ?) RETURNING id, user_id, product, amount`,
		userID, product, amount,
	).Rows()
	if err != nil {
		return nil, storeError("create order", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, storeError("create order", err)
		}
		return nil, storeError("create order", errors.New("insert returned no row"))
	}
	var order models.Order
	if err := rows.Scan(&order.ID, &order.UserID, &order.Product, &order.Amount); err != nil {
		return nil, storeError("scan order", err)
	}
	return &order, nil
}

// GetByUser lists the orders placed by userID together with the user's name.
func (r *GORMOrderRepository) GetByUser(ctx context.Context, userID int64) ([]models.OrderSummary, error) {
	rows, err := r.db.WithContext(ctx).Raw(
		`SELECT orders.id, users.name, orders.product, orders.amount
		 FROM orders
		 JOIN users ON orders.user_id = users.id
		 WHERE orders.user_id = ?
		 ORDER BY orders.id`,
		userID,
	).Rows()
	if err != nil {
		return nil, storeError("list orders", err)
	}
	defer rows.Close()

	orders := make([]models.OrderSummary, 0)
	for rows.Next() {
		var o models.OrderSummary
		if err := rows.Scan(&o.ID, &o.Name, &o.Product, &o.Amount); err != nil {
			return nil, storeError("scan order", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("list orders", err)
	}
	return orders, nil
}

// TotalByUser sums the amounts of every order placed by userID.
func (r *GORMOrderRepository) TotalByUser(ctx context.Context, userID int64) (*models.Money, error) {
	var total *models.Money
	err := r.db.WithContext(ctx).Raw(
		`SELECT SUM(amount) AS total_spent FROM orders WHERE user_id = ?`, userID,
	).Row().Scan(&total)
	if err != nil {
		return nil, storeError("sum orders", err)
	}
	return total, nil
}
