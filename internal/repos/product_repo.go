package repos

import (
	"context"

	"github.com/jmoiron/sqlx"

	"gmart/internal/domain"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

const productSelect = `
  SELECT
    p.id, p.category_id, COALESCE(c.name,'') AS category_name, p.name,
    COALESCE(p.description,'') AS description, p.price, p.stock,
    COALESCE(p.image_url,'') AS image_url, p.rating, p.review_count
  FROM products p
  LEFT JOIN categories c ON c.id = p.category_id`

// ListProducts returns every product of a category, or all products when
// categoryID is empty. Ordering is left to the caller.
func (r *ProductRepo) ListProducts(ctx context.Context, categoryID string) ([]domain.Product, error) {
	out := []domain.Product{}
	if categoryID == "" {
		err := r.db.SelectContext(ctx, &out, productSelect)
		return out, err
	}
	err := r.db.SelectContext(ctx, &out, productSelect+` WHERE p.category_id = ?`, categoryID)
	return out, err
}

// Featured returns up to limit products rated at least minRating.
func (r *ProductRepo) Featured(ctx context.Context, minRating float64, limit int) ([]domain.Product, error) {
	out := []domain.Product{}
	err := r.db.SelectContext(ctx, &out, productSelect+`
	  WHERE p.rating >= ?
	  ORDER BY p.rating DESC, p.review_count DESC
	  LIMIT ?`, minRating, limit)
	return out, err
}

func (r *ProductRepo) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	var p domain.Product
	err := r.db.GetContext(ctx, &p, productSelect+` WHERE p.id = ?`, id)
	return p, notFound(err)
}

// SetStock overwrites the stock level of a product.
func (r *ProductRepo) SetStock(ctx context.Context, id string, stock int) error {
	res, err := r.db.ExecContext(ctx, `UPDATE products SET stock = ? WHERE id = ?`, stock, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
