package gateway

import (
	"context"

	"gmart/internal/domain"
	"gmart/internal/services"
)

var (
	_ services.ReviewStore  = (*Reviews)(nil)
	_ services.ProfileStore = (*Profiles)(nil)
)

type Reviews struct{ c *Client }

func NewReviews(c *Client) *Reviews { return &Reviews{c: c} }

// Upsert relies on the unique (user_id, product_id) constraint. The id is
// left out so a replaced review keeps its original one.
func (s *Reviews) Upsert(ctx context.Context, rv domain.Review) error {
	return s.c.From("reviews").Upsert(ctx, map[string]any{
		"user_id":    rv.UserID,
		"product_id": rv.ProductID,
		"rating":     rv.Rating,
		"comment":    rv.Comment,
		"created_at": rv.CreatedAt,
	}, "user_id,product_id")
}

type reviewRow struct {
	domain.Review
	Profiles *struct {
		FullName string `json:"full_name"`
	} `json:"profiles"`
}

func (s *Reviews) ListByProduct(ctx context.Context, productID string) ([]domain.Review, error) {
	var rows []reviewRow
	err := s.c.From("reviews").Select("*,profiles(full_name)").
		Eq("product_id", productID).
		Order("created_at", false).
		Get(ctx, &rows)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Review, 0, len(rows))
	for _, r := range rows {
		rv := r.Review
		if r.Profiles != nil {
			rv.ReviewerName = r.Profiles.FullName
		}
		out = append(out, rv)
	}
	return out, nil
}

type Profiles struct{ c *Client }

func NewProfiles(c *Client) *Profiles { return &Profiles{c: c} }

func (s *Profiles) ByUser(ctx context.Context, userID string) (domain.Profile, error) {
	var rows []domain.Profile
	if err := s.c.From("profiles").Select("*").Eq("user_id", userID).Limit(1).Get(ctx, &rows); err != nil {
		return domain.Profile{}, err
	}
	if len(rows) == 0 {
		return domain.Profile{}, domain.ErrNotFound
	}
	return rows[0], nil
}

func (s *Profiles) Create(ctx context.Context, p domain.Profile) (domain.Profile, error) {
	var rows []domain.Profile
	if err := s.c.From("profiles").Insert(ctx, p, &rows); err != nil {
		return domain.Profile{}, err
	}
	if len(rows) == 0 {
		return p, nil
	}
	return rows[0], nil
}

func (s *Profiles) Update(ctx context.Context, p domain.Profile) error {
	n, err := s.c.From("profiles").Eq("user_id", p.UserID).Update(ctx, map[string]any{
		"full_name": p.FullName,
		"email":     p.Email,
		"phone":     p.Phone,
		"address":   p.Address,
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
