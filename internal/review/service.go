package review

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/shopcore/shop-backend/internal/product"
)

// Catalog checks product existence and lets the service drop cached product
// reads after a rating recompute.
type Catalog interface {
	GetByID(ctx context.Context, id int) (product.Product, error)
	InvalidateCache(ctx context.Context, id int)
}

type Service struct {
	repo    Repository
	catalog Catalog
	logger  *zap.Logger
}

func NewService(repo Repository, catalog Catalog, logger *zap.Logger) *Service {
	return &Service{repo: repo, catalog: catalog, logger: logger}
}

// Add creates a pending review. Moderation happens later via Approve.
func (s *Service) Add(ctx context.Context, productID, customerID, rating int, body string) (Review, error) {
	if rating < 1 || rating > 5 {
		return Review{}, ErrInvalidRating
	}
	if strings.TrimSpace(body) == "" {
		return Review{}, ErrEmptyBody
	}
	if _, err := s.catalog.GetByID(ctx, productID); err != nil {
		if errors.Is(err, product.ErrNotFound) {
			return Review{}, ErrProductNotFound
		}
		return Review{}, err
	}

	return s.repo.Create(ctx, Review{
		ProductID:  productID,
		CustomerID: customerID,
		Rating:     rating,
		Body:       body,
	})
}

// Approve flips the review to approved exactly once and leaves the product
// rating equal to the mean over its approved reviews.
func (s *Service) Approve(ctx context.Context, reviewID int) (Review, error) {
	rev, rating, err := s.repo.Approve(ctx, reviewID)
	if err != nil {
		return Review{}, err
	}

	s.catalog.InvalidateCache(ctx, rev.ProductID)
	s.logger.Info("review approved",
		zap.Int("reviewId", rev.ID),
		zap.Int("productId", rev.ProductID),
		zap.Float64("rating", rating))
	return rev, nil
}

// Delete removes a review; deleting an approved one recomputes the product
// rating so the mean never includes a vanished review.
func (s *Service) Delete(ctx context.Context, reviewID int) error {
	rev, _, err := s.repo.Delete(ctx, reviewID)
	if err != nil {
		return err
	}
	if rev.Approved {
		s.catalog.InvalidateCache(ctx, rev.ProductID)
	}
	return nil
}

// ListApproved returns the reviews that contribute to a product's rating.
func (s *Service) ListApproved(ctx context.Context, productID int) ([]Review, error) {
	if _, err := s.catalog.GetByID(ctx, productID); err != nil {
		if errors.Is(err, product.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return s.repo.ListApprovedByProduct(ctx, productID)
}
