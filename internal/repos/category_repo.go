package repos

import (
	"context"

	"github.com/jmoiron/sqlx"

	"gmart/internal/domain"
)

type CategoryRepo struct{ db *sqlx.DB }

func NewCategoryRepo(db *sqlx.DB) *CategoryRepo { return &CategoryRepo{db: db} }

const categoryCols = `id, name, COALESCE(description,'') AS description, COALESCE(image_url,'') AS image_url`

// ListCategories returns categories ordered by name; limit <= 0 means all.
func (r *CategoryRepo) ListCategories(ctx context.Context, limit int) ([]domain.Category, error) {
	if limit <= 0 {
		limit = -1
	}
	out := []domain.Category{}
	err := r.db.SelectContext(ctx, &out, `
	  SELECT `+categoryCols+`
	  FROM categories
	  ORDER BY name
	  LIMIT ?
	`, limit)
	return out, err
}

func (r *CategoryRepo) GetCategory(ctx context.Context, id string) (domain.Category, error) {
	var c domain.Category
	err := r.db.GetContext(ctx, &c, `SELECT `+categoryCols+` FROM categories WHERE id = ?`, id)
	return c, notFound(err)
}
