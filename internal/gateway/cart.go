package gateway

import (
	"context"

	"github.com/shopspring/decimal"

	"gmart/internal/domain"
	"gmart/internal/services"
)

var _ services.CartStore = (*Carts)(nil)

type Carts struct{ c *Client }

func NewCarts(c *Client) *Carts { return &Carts{c: c} }

const cartSelect = "id,user_id,product_id,quantity,products(name,price,image_url,stock)"

type cartRow struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Products  *struct {
		Name     string          `json:"name"`
		Price    decimal.Decimal `json:"price"`
		ImageURL string          `json:"image_url"`
		Stock    int             `json:"stock"`
	} `json:"products"`
}

func (r cartRow) line() domain.CartLine {
	l := domain.CartLine{ID: r.ID, UserID: r.UserID, ProductID: r.ProductID, Quantity: r.Quantity}
	if r.Products != nil {
		l.Name = r.Products.Name
		l.Price = r.Products.Price
		l.ImageURL = r.Products.ImageURL
		l.Stock = r.Products.Stock
	}
	return l
}

func (s *Carts) Lines(ctx context.Context, userID string) ([]domain.CartLine, error) {
	var rows []cartRow
	err := s.c.From("cart_items").Select(cartSelect).Eq("user_id", userID).Order("created_at", true).Get(ctx, &rows)
	if err != nil {
		return nil, err
	}
	out := make([]domain.CartLine, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.line())
	}
	return out, nil
}

func (s *Carts) FindLine(ctx context.Context, userID, productID string) (domain.CartLine, error) {
	var rows []cartRow
	err := s.c.From("cart_items").Select(cartSelect).
		Eq("user_id", userID).Eq("product_id", productID).Limit(1).
		Get(ctx, &rows)
	if err != nil {
		return domain.CartLine{}, err
	}
	if len(rows) == 0 {
		return domain.CartLine{}, domain.ErrNotFound
	}
	return rows[0].line(), nil
}

func (s *Carts) InsertLine(ctx context.Context, l domain.CartLine) error {
	return s.c.From("cart_items").Insert(ctx, map[string]any{
		"id":         l.ID,
		"user_id":    l.UserID,
		"product_id": l.ProductID,
		"quantity":   l.Quantity,
	}, nil)
}

func (s *Carts) UpdateQuantity(ctx context.Context, userID, lineID string, qty int) error {
	n, err := s.c.From("cart_items").Eq("id", lineID).Eq("user_id", userID).
		Update(ctx, map[string]any{"quantity": qty})
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Carts) DeleteLine(ctx context.Context, userID, lineID string) error {
	return s.c.From("cart_items").Eq("id", lineID).Eq("user_id", userID).Delete(ctx)
}

func (s *Carts) Clear(ctx context.Context, userID string) error {
	return s.c.From("cart_items").Eq("user_id", userID).Delete(ctx)
}
