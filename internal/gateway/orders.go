package gateway

import (
	"context"
	"errors"
	"fmt"

	"gmart/internal/domain"
	"gmart/internal/services"
)

var _ services.OrderStore = (*Orders)(nil)

type Orders struct{ c *Client }

func NewOrders(c *Client) *Orders { return &Orders{c: c} }

// PlaceOrder inserts the order, then all items in one batch. The gateway has
// no cross-request transaction, so a failed item insert is compensated by
// deleting the order row.
func (s *Orders) PlaceOrder(ctx context.Context, o domain.Order, items []domain.OrderItem) error {
	if err := s.c.From("orders").Insert(ctx, orderRow(o), nil); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	if err := s.c.From("order_items").Insert(ctx, items, nil); err != nil {
		err = fmt.Errorf("insert order items: %w", err)
		if derr := s.c.From("orders").Eq("id", o.ID).Delete(context.WithoutCancel(ctx)); derr != nil {
			return errors.Join(err, fmt.Errorf("compensate order %s: %w", o.ID, derr))
		}
		return err
	}
	return nil
}

// orderRow is the hosted orders row. The customer contact snapshot only
// exists in the local schema.
func orderRow(o domain.Order) map[string]any {
	return map[string]any{
		"id":               o.ID,
		"user_id":          o.UserID,
		"total_amount":     o.TotalAmount,
		"status":           o.Status,
		"payment_method":   o.PaymentMethod,
		"payment_status":   o.PaymentStatus,
		"delivery_address": o.DeliveryAddress,
		"created_at":       o.CreatedAt,
	}
}

type orderItemRow struct {
	domain.OrderItem
	Products *struct {
		Name     string `json:"name"`
		ImageURL string `json:"image_url"`
	} `json:"products"`
}

func (s *Orders) GetOrder(ctx context.Context, userID, orderID string) (domain.Order, []domain.OrderItem, error) {
	var orders []domain.Order
	if err := s.c.From("orders").Select("*").Eq("id", orderID).Eq("user_id", userID).Limit(1).Get(ctx, &orders); err != nil {
		return domain.Order{}, nil, err
	}
	if len(orders) == 0 {
		return domain.Order{}, nil, domain.ErrNotFound
	}

	var rows []orderItemRow
	if err := s.c.From("order_items").Select("*,products(name,image_url)").Eq("order_id", orderID).Get(ctx, &rows); err != nil {
		return domain.Order{}, nil, err
	}
	items := make([]domain.OrderItem, 0, len(rows))
	for _, r := range rows {
		it := r.OrderItem
		if r.Products != nil {
			it.Name = r.Products.Name
			it.ImageURL = r.Products.ImageURL
		}
		items = append(items, it)
	}
	return orders[0], items, nil
}

func (s *Orders) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	out := []domain.Order{}
	return out, s.c.From("orders").Select("*").Eq("user_id", userID).Order("created_at", false).Get(ctx, &out)
}

func (s *Orders) ListLatest(ctx context.Context, limit int) ([]domain.Order, error) {
	if limit <= 0 {
		limit = 100
	}
	out := []domain.Order{}
	return out, s.c.From("orders").Select("*").Order("created_at", false).Limit(limit).Get(ctx, &out)
}

func (s *Orders) UpdateStatus(ctx context.Context, id, status string) error {
	n, err := s.c.From("orders").Eq("id", id).Update(ctx, map[string]any{"status": status})
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
