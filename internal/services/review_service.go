package services

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"gmart/internal/domain"
)

const MaxCommentLen = 1000

type ReviewService struct {
	Reviews ReviewStore
	Prods   ProductStore
	Now     func() time.Time
}

func NewReviewService(reviews ReviewStore, prods ProductStore) *ReviewService {
	return &ReviewService{Reviews: reviews, Prods: prods, Now: func() time.Time { return time.Now().UTC() }}
}

// Submit records the user's review of a product, replacing any earlier one,
// and returns the product re-read so rating and review_count reflect the
// backend's aggregates.
func (s *ReviewService) Submit(ctx context.Context, user *domain.User, productID string, rating int, comment string) (domain.Product, error) {
	if user == nil {
		return domain.Product{}, ErrNotAuthenticated
	}
	if rating < 1 || rating > 5 {
		return domain.Product{}, invalid("rating", "Rating must be between 1 and 5")
	}
	comment = strings.TrimSpace(comment)
	if utf8.RuneCountInString(comment) > MaxCommentLen {
		return domain.Product{}, invalid("comment", "Comment is too long")
	}
	if _, err := s.Prods.GetProduct(ctx, productID); err != nil {
		return domain.Product{}, err
	}

	if err := s.Reviews.Upsert(ctx, domain.Review{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		ProductID: productID,
		Rating:    rating,
		Comment:   comment,
		CreatedAt: s.Now(),
	}); err != nil {
		return domain.Product{}, err
	}
	return s.Prods.GetProduct(ctx, productID)
}

func (s *ReviewService) List(ctx context.Context, productID string) ([]domain.Review, error) {
	return s.Reviews.ListByProduct(ctx, productID)
}

// Mine picks the user's own review out of a product's reviews.
func Mine(reviews []domain.Review, user *domain.User) *domain.Review {
	if user == nil {
		return nil
	}
	for i := range reviews {
		if reviews[i].UserID == user.ID {
			return &reviews[i]
		}
	}
	return nil
}
