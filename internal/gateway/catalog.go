package gateway

import (
	"context"
	"fmt"

	"gmart/internal/domain"
	"gmart/internal/services"
)

var (
	_ services.CategoryStore = (*Categories)(nil)
	_ services.ProductStore  = (*Products)(nil)
)

type Categories struct{ c *Client }

func NewCategories(c *Client) *Categories { return &Categories{c: c} }

func (s *Categories) ListCategories(ctx context.Context, limit int) ([]domain.Category, error) {
	q := s.c.From("categories").Select("*").Order("name", true)
	if limit > 0 {
		q.Limit(limit)
	}
	out := []domain.Category{}
	return out, q.Get(ctx, &out)
}

func (s *Categories) GetCategory(ctx context.Context, id string) (domain.Category, error) {
	var rows []domain.Category
	if err := s.c.From("categories").Select("*").Eq("id", id).Limit(1).Get(ctx, &rows); err != nil {
		return domain.Category{}, err
	}
	if len(rows) == 0 {
		return domain.Category{}, domain.ErrNotFound
	}
	return rows[0], nil
}

type Products struct{ c *Client }

func NewProducts(c *Client) *Products { return &Products{c: c} }

const productSelect = "*,categories(name)"

// productRow is a product with its category embedded.
type productRow struct {
	domain.Product
	Categories *struct {
		Name string `json:"name"`
	} `json:"categories"`
}

func (r productRow) product() domain.Product {
	p := r.Product
	if r.Categories != nil {
		p.CategoryName = r.Categories.Name
	}
	return p
}

func products(rows []productRow) []domain.Product {
	out := make([]domain.Product, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.product())
	}
	return out
}

func (s *Products) ListProducts(ctx context.Context, categoryID string) ([]domain.Product, error) {
	q := s.c.From("products").Select(productSelect).Order("name", true)
	if categoryID != "" {
		q.Eq("category_id", categoryID)
	}
	var rows []productRow
	if err := q.Get(ctx, &rows); err != nil {
		return nil, err
	}
	return products(rows), nil
}

func (s *Products) Featured(ctx context.Context, minRating float64, limit int) ([]domain.Product, error) {
	var rows []productRow
	err := s.c.From("products").Select(productSelect).
		Gte("rating", minRating).
		Order("rating", false).
		Limit(limit).
		Get(ctx, &rows)
	if err != nil {
		return nil, err
	}
	return products(rows), nil
}

func (s *Products) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	var rows []productRow
	if err := s.c.From("products").Select(productSelect).Eq("id", id).Limit(1).Get(ctx, &rows); err != nil {
		return domain.Product{}, err
	}
	if len(rows) == 0 {
		return domain.Product{}, domain.ErrNotFound
	}
	return rows[0].product(), nil
}

func (s *Products) SetStock(ctx context.Context, id string, stock int) error {
	n, err := s.c.From("products").Eq("id", id).Update(ctx, map[string]any{"stock": stock})
	if err != nil {
		return fmt.Errorf("set stock %s: %w", id, err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
