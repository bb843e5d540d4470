package review

import (
	"context"
	"errors"
	"sort"
	"sync"
)

var (
	ErrNotFound        = errors.New("review not found")
	ErrAlreadyApproved = errors.New("review already approved")
	ErrInvalidRating   = errors.New("rating must be between 1 and 5")
	ErrEmptyBody       = errors.New("review text must not be empty")
	ErrProductNotFound = errors.New("product not found")
)

// Repository persists reviews. Approve and Delete also maintain the owning
// product's rating: the flag/row write and the rating write commit as one
// unit so the rating is never stale relative to the approved set.
type Repository interface {
	Create(ctx context.Context, r Review) (Review, error)
	GetByID(ctx context.Context, id int) (Review, error)
	ListApprovedByProduct(ctx context.Context, productID int) ([]Review, error)
	// Approve flips the flag and recomputes the product rating atomically.
	// Returns the approved review and the new rating.
	Approve(ctx context.Context, id int) (Review, float64, error)
	// Delete removes the review; when it was approved the product rating is
	// recomputed in the same unit. Returns the deleted review and the new
	// rating (unchanged when the review was still pending).
	Delete(ctx context.Context, id int) (Review, float64, error)
}

// InMemoryRepository keeps reviews and per-product ratings under one mutex,
// which gives it the same atomicity as the SQL transaction.
type InMemoryRepository struct {
	mu      sync.Mutex
	reviews map[int]Review
	ratings map[int]float64
	nextID  int
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		reviews: make(map[int]Review),
		ratings: make(map[int]float64),
		nextID:  1,
	}
}

func (r *InMemoryRepository) Create(ctx context.Context, rev Review) (Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rev.ID = r.nextID
	r.nextID++
	r.reviews[rev.ID] = rev
	return rev, nil
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id int) (Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rev, ok := r.reviews[id]
	if !ok {
		return Review{}, ErrNotFound
	}
	return rev, nil
}

func (r *InMemoryRepository) ListApprovedByProduct(ctx context.Context, productID int) ([]Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Review, 0)
	for _, rev := range r.reviews {
		if rev.ProductID == productID && rev.Approved {
			out = append(out, rev)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *InMemoryRepository) Approve(ctx context.Context, id int) (Review, float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rev, ok := r.reviews[id]
	if !ok {
		return Review{}, 0, ErrNotFound
	}
	if rev.Approved {
		return Review{}, 0, ErrAlreadyApproved
	}

	rev.Approved = true
	r.reviews[id] = rev

	rating := r.recompute(rev.ProductID)
	return rev, rating, nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, id int) (Review, float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rev, ok := r.reviews[id]
	if !ok {
		return Review{}, 0, ErrNotFound
	}
	delete(r.reviews, id)

	rating := r.ratings[rev.ProductID]
	if rev.Approved {
		rating = r.recompute(rev.ProductID)
	}
	return rev, rating, nil
}

// Rating reports the stored rating for a product; tests use it to observe
// the recompute.
func (r *InMemoryRepository) Rating(productID int) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ratings[productID]
}

func (r *InMemoryRepository) recompute(productID int) float64 {
	sum, n := 0, 0
	for _, rev := range r.reviews {
		if rev.ProductID == productID && rev.Approved {
			sum += rev.Rating
			n++
		}
	}
	rating := 0.0
	if n > 0 {
		rating = float64(sum) / float64(n)
	}
	r.ratings[productID] = rating
	return rating
}
