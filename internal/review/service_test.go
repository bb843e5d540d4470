package review

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shopcore/shop-backend/internal/product"
)

func newTestService() (*Service, *InMemoryRepository) {
	catalog := product.NewService(product.NewInMemoryRepository([]product.Product{
		{ID: 1, Name: "Dog food", Price: 100},
	}))
	repo := NewInMemoryRepository()
	return NewService(repo, catalog, zap.NewNop()), repo
}

func TestAdd_Validation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Add(ctx, 1, 7, 0, "fine")
	assert.ErrorIs(t, err, ErrInvalidRating)
	_, err = svc.Add(ctx, 1, 7, 6, "fine")
	assert.ErrorIs(t, err, ErrInvalidRating)

	_, err = svc.Add(ctx, 1, 7, 4, "   ")
	assert.ErrorIs(t, err, ErrEmptyBody)

	_, err = svc.Add(ctx, 999, 7, 4, "fine")
	assert.ErrorIs(t, err, ErrProductNotFound)

	rev, err := svc.Add(ctx, 1, 7, 4, "my dog approves")
	require.NoError(t, err)
	assert.False(t, rev.Approved, "new reviews start pending")
}

func TestApprove_RecomputesMean(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	ids := make([]int, 0, 3)
	for _, rating := range []int{4, 5, 3} {
		rev, err := svc.Add(ctx, 1, 7, rating, "ok")
		require.NoError(t, err)
		ids = append(ids, rev.ID)
	}

	// pending reviews contribute nothing
	assert.Zero(t, repo.Rating(1))

	rev, err := svc.Approve(ctx, ids[0])
	require.NoError(t, err)
	assert.True(t, rev.Approved)
	assert.Equal(t, 4.0, repo.Rating(1))

	_, err = svc.Approve(ctx, ids[1])
	require.NoError(t, err)
	assert.Equal(t, 4.5, repo.Rating(1))

	_, err = svc.Approve(ctx, ids[2])
	require.NoError(t, err)
	assert.Equal(t, 4.0, repo.Rating(1))
}

func TestApprove_OneWay(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	rev, err := svc.Add(ctx, 1, 7, 5, "great")
	require.NoError(t, err)
	_, err = svc.Approve(ctx, rev.ID)
	require.NoError(t, err)

	_, err = svc.Approve(ctx, rev.ID)
	assert.ErrorIs(t, err, ErrAlreadyApproved)
	assert.Equal(t, 5.0, repo.Rating(1), "rating untouched by the rejected re-approval")

	_, err = svc.Approve(ctx, 404)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete_ApprovedReviewRecomputes(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	a, err := svc.Add(ctx, 1, 7, 2, "meh")
	require.NoError(t, err)
	b, err := svc.Add(ctx, 1, 8, 4, "good")
	require.NoError(t, err)
	for _, id := range []int{a.ID, b.ID} {
		_, err = svc.Approve(ctx, id)
		require.NoError(t, err)
	}
	require.Equal(t, 3.0, repo.Rating(1))

	require.NoError(t, svc.Delete(ctx, a.ID))
	assert.Equal(t, 4.0, repo.Rating(1))

	assert.ErrorIs(t, svc.Delete(ctx, a.ID), ErrNotFound)
}

func TestDelete_PendingReviewKeepsRating(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	approved, err := svc.Add(ctx, 1, 7, 5, "great")
	require.NoError(t, err)
	_, err = svc.Approve(ctx, approved.ID)
	require.NoError(t, err)

	pending, err := svc.Add(ctx, 1, 8, 1, "bad")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, pending.ID))
	assert.Equal(t, 5.0, repo.Rating(1))
}

func TestListApproved(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	visible, err := svc.Add(ctx, 1, 7, 5, "great")
	require.NoError(t, err)
	_, err = svc.Approve(ctx, visible.ID)
	require.NoError(t, err)

	_, err = svc.Add(ctx, 1, 8, 1, "awaiting moderation")
	require.NoError(t, err)

	reviews, err := svc.ListApproved(ctx, 1)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, visible.ID, reviews[0].ID)

	_, err = svc.ListApproved(ctx, 999)
	assert.ErrorIs(t, err, ErrProductNotFound)
}
