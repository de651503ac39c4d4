package repos

import (
	"context"

	"github.com/jmoiron/sqlx"

	"gmart/internal/domain"
)

type CartRepo struct{ db *sqlx.DB }

func NewCartRepo(db *sqlx.DB) *CartRepo { return &CartRepo{db: db} }

const cartSelect = `
  SELECT ci.id, ci.user_id, ci.product_id, ci.quantity,
         p.name, p.price, COALESCE(p.image_url,'') AS image_url, p.stock
  FROM cart_items ci
  JOIN products p ON p.id = ci.product_id`

// Lines returns the user's cart joined with product name, price, image and stock.
func (r *CartRepo) Lines(ctx context.Context, userID string) ([]domain.CartLine, error) {
	out := []domain.CartLine{}
	err := r.db.SelectContext(ctx, &out, cartSelect+`
	  WHERE ci.user_id = ?
	  ORDER BY ci.created_at, ci.id`, userID)
	return out, err
}

// FindLine returns the user's line for a product, or domain.ErrNotFound.
func (r *CartRepo) FindLine(ctx context.Context, userID, productID string) (domain.CartLine, error) {
	var l domain.CartLine
	err := r.db.GetContext(ctx, &l, cartSelect+` WHERE ci.user_id = ? AND ci.product_id = ?`, userID, productID)
	return l, notFound(err)
}

func (r *CartRepo) InsertLine(ctx context.Context, l domain.CartLine) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO cart_items(id, user_id, product_id, quantity, created_at)
		VALUES(?, ?, ?, ?, CURRENT_TIMESTAMP)
	`, l.ID, l.UserID, l.ProductID, l.Quantity)
	return err
}

func (r *CartRepo) UpdateQuantity(ctx context.Context, userID, lineID string, qty int) error {
	res, err := r.db.ExecContext(ctx, `UPDATE cart_items SET quantity = ? WHERE id = ? AND user_id = ?`, qty, lineID, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *CartRepo) DeleteLine(ctx context.Context, userID, lineID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE id = ? AND user_id = ?`, lineID, userID)
	return err
}

// Clear deletes every line of the user's cart.
func (r *CartRepo) Clear(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE user_id = ?`, userID)
	return err
}
