package repos

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"gmart/internal/domain"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

const orderCols = `
  id, user_id, total_amount, status, payment_method, payment_status, delivery_address,
  COALESCE(customer_name,'') AS customer_name, COALESCE(customer_email,'') AS customer_email,
  COALESCE(customer_phone,'') AS customer_phone, created_at`

// PlaceOrder writes the order header and all of its items in one transaction,
// so a failing item insert leaves no order behind.
func (r *OrderRepo) PlaceOrder(ctx context.Context, o domain.Order, items []domain.OrderItem) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
	  INSERT INTO orders
	    (id, user_id, total_amount, status, payment_method, payment_status, delivery_address,
	     customer_name, customer_email, customer_phone, created_at)
	  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, o.ID, o.UserID, o.TotalAmount, o.Status, o.PaymentMethod, o.PaymentStatus, o.DeliveryAddress,
		o.CustomerName, o.CustomerEmail, o.CustomerPhone, o.CreatedAt); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for _, it := range items {
		if _, err := tx.ExecContext(ctx, `
		  INSERT INTO order_items(id, order_id, product_id, quantity, price)
		  VALUES(?, ?, ?, ?, ?)
		`, it.ID, o.ID, it.ProductID, it.Quantity, it.Price); err != nil {
			return fmt.Errorf("insert order item %s: %w", it.ProductID, err)
		}
	}

	return tx.Commit()
}

// GetOrder returns an order owned by userID together with its items.
// Orders of other users are reported as domain.ErrNotFound.
func (r *OrderRepo) GetOrder(ctx context.Context, userID, orderID string) (domain.Order, []domain.OrderItem, error) {
	var o domain.Order
	if err := r.db.GetContext(ctx, &o, `SELECT `+orderCols+` FROM orders WHERE id = ? AND user_id = ?`, orderID, userID); err != nil {
		return domain.Order{}, nil, notFound(err)
	}

	items := []domain.OrderItem{}
	if err := r.db.SelectContext(ctx, &items, `
		SELECT oi.id, oi.order_id, oi.product_id, oi.quantity, oi.price,
		       p.name, COALESCE(p.image_url,'') AS image_url
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = ?
		ORDER BY p.name
	`, orderID); err != nil {
		return domain.Order{}, nil, err
	}

	return o, items, nil
}

// ListByUser returns the user's orders, newest first.
func (r *OrderRepo) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	out := []domain.Order{}
	err := r.db.SelectContext(ctx, &out, `
		SELECT `+orderCols+`
		FROM orders
		WHERE user_id = ?
		ORDER BY created_at DESC
	`, userID)
	return out, err
}

func (r *OrderRepo) ListLatest(ctx context.Context, limit int) ([]domain.Order, error) {
	if limit <= 0 {
		limit = 100
	}
	out := []domain.Order{}
	err := r.db.SelectContext(ctx, &out, `
		SELECT `+orderCols+`
		FROM orders
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
	return out, err
}

func (r *OrderRepo) UpdateStatus(ctx context.Context, id, status string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE orders SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
