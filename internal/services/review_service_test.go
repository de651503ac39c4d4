package services_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gmart/internal/domain"
	"gmart/internal/repos"
	"gmart/internal/services"
)

func newReviewService(t *testing.T) *services.ReviewService {
	db := openDB(t)
	return services.NewReviewService(repos.NewReviewRepo(db), repos.NewProductRepo(db))
}

func TestReviewResubmitReplaces(t *testing.T) {
	svc := newReviewService(t)
	ctx := context.Background()

	// bread-001 is seeded with one 5-star review by alice
	p, err := svc.Submit(ctx, bob, "bread-001", 3, "Bit dense.")
	require.NoError(t, err)
	assert.Equal(t, 2, p.ReviewCount)
	assert.InDelta(t, 4.0, p.Rating, 0.001)

	p, err = svc.Submit(ctx, bob, "bread-001", 5, "  Grew on me.  ")
	require.NoError(t, err)
	assert.Equal(t, 2, p.ReviewCount)
	assert.InDelta(t, 5.0, p.Rating, 0.001)

	reviews, err := svc.List(ctx, "bread-001")
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	mine := services.Mine(reviews, bob)
	require.NotNil(t, mine)
	assert.Equal(t, 5, mine.Rating)
	assert.Equal(t, "Grew on me.", mine.Comment)
	assert.Equal(t, "Bob", mine.ReviewerName)
}

func TestReviewValidation(t *testing.T) {
	svc := newReviewService(t)
	ctx := context.Background()

	_, err := svc.Submit(ctx, bob, "bread-001", 0, "")
	assert.ErrorIs(t, err, services.ErrInvalidInput)
	_, err = svc.Submit(ctx, bob, "bread-001", 6, "")
	assert.ErrorIs(t, err, services.ErrInvalidInput)
	_, err = svc.Submit(ctx, bob, "bread-001", 4, strings.Repeat("x", services.MaxCommentLen+1))
	assert.ErrorIs(t, err, services.ErrInvalidInput)
	_, err = svc.Submit(ctx, bob, "missing", 4, "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = svc.Submit(ctx, nil, "bread-001", 4, "")
	assert.ErrorIs(t, err, services.ErrNotAuthenticated)
}

func TestMineWithoutUser(t *testing.T) {
	assert.Nil(t, services.Mine([]domain.Review{{UserID: "u-alice"}}, nil))
}
