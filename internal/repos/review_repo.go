package repos

import (
	"context"

	"github.com/jmoiron/sqlx"

	"gmart/internal/domain"
)

type ReviewRepo struct{ db *sqlx.DB }

func NewReviewRepo(db *sqlx.DB) *ReviewRepo { return &ReviewRepo{db: db} }

// Upsert inserts the review or replaces the rating and comment of the
// existing (user, product) review. The row keeps its original id.
func (r *ReviewRepo) Upsert(ctx context.Context, rv domain.Review) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO reviews(id, user_id, product_id, rating, comment, created_at)
		VALUES(?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, product_id) DO UPDATE SET
		  rating = excluded.rating,
		  comment = excluded.comment,
		  created_at = excluded.created_at
	`, rv.ID, rv.UserID, rv.ProductID, rv.Rating, rv.Comment, rv.CreatedAt)
	return err
}

// ListByProduct returns a product's reviews, newest first.
func (r *ReviewRepo) ListByProduct(ctx context.Context, productID string) ([]domain.Review, error) {
	out := []domain.Review{}
	err := r.db.SelectContext(ctx, &out, `
		SELECT rv.id, rv.user_id, rv.product_id, rv.rating, COALESCE(rv.comment,'') AS comment,
		       COALESCE(u.name,'') AS reviewer_name, rv.created_at
		FROM reviews rv
		LEFT JOIN users u ON u.id = rv.user_id
		WHERE rv.product_id = ?
		ORDER BY rv.created_at DESC, rv.id
	`, productID)
	return out, err
}
