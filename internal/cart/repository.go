package cart

import (
	"context"
	"errors"
	"sync"
	"time"
)

var (
	ErrNotFound        = errors.New("cart not found")
	ErrConflict        = errors.New("cart was modified concurrently")
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrLineNotFound    = errors.New("cart line not found")
	ErrProductNotFound = errors.New("product not found")
)

// Repository persists carts. Save checks the version stamp carried by the
// cart: a mismatch on an existing cart yields ErrConflict and writes
// nothing. On success the returned cart carries the advanced stamp.
type Repository interface {
	FindByCustomer(ctx context.Context, customerID int) (Cart, error)
	Create(ctx context.Context, customerID int) (Cart, error)
	Save(ctx context.Context, c Cart) (Cart, error)
}

// InMemoryRepository is used for tests and local scenarios.
type InMemoryRepository struct {
	mu     sync.Mutex
	carts  map[int]Cart // keyed by customer id
	nextID int
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{carts: make(map[int]Cart), nextID: 1}
}

func (r *InMemoryRepository) FindByCustomer(ctx context.Context, customerID int) (Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.carts[customerID]
	if !ok {
		return Cart{}, ErrNotFound
	}
	return cloneCart(c), nil
}

func (r *InMemoryRepository) Create(ctx context.Context, customerID int) (Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.carts[customerID]; ok {
		return cloneCart(c), nil
	}

	c := Cart{
		ID:         r.nextID,
		CustomerID: customerID,
		Version:    1,
		Lines:      []Line{},
		CreatedAt:  time.Now().UTC(),
	}
	r.nextID++
	r.carts[customerID] = c
	return cloneCart(c), nil
}

func (r *InMemoryRepository) Save(ctx context.Context, c Cart) (Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.carts[c.CustomerID]
	if !ok {
		return Cart{}, ErrNotFound
	}
	if stored.Version != c.Version {
		return Cart{}, ErrConflict
	}

	c.Version++
	r.carts[c.CustomerID] = cloneCart(c)
	return cloneCart(c), nil
}

func cloneCart(c Cart) Cart {
	lines := make([]Line, len(c.Lines))
	copy(lines, c.Lines)
	c.Lines = lines
	return c
}
