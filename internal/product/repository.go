package product

import (
	"context"
	"errors"
	"sort"
	"sync"
)

var ErrNotFound = errors.New("product not found")

// Repository provides access to the product catalog.
type Repository interface {
	List(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id int) (Product, error)
	Create(ctx context.Context, p Product) (Product, error)
}

// InMemoryRepository is used for tests and local scenarios.
type InMemoryRepository struct {
	mu       sync.RWMutex
	products map[int]Product
	nextID   int
}

func NewInMemoryRepository(seed []Product) *InMemoryRepository {
	r := &InMemoryRepository{
		products: make(map[int]Product, len(seed)),
		nextID:   1,
	}
	for _, p := range seed {
		r.products[p.ID] = p
		if p.ID >= r.nextID {
			r.nextID = p.ID + 1
		}
	}
	return r
}

func (r *InMemoryRepository) List(ctx context.Context) ([]Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id int) (Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return Product{}, ErrNotFound
	}
	return p, nil
}

func (r *InMemoryRepository) Create(ctx context.Context, p Product) (Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p.ID == 0 {
		p.ID = r.nextID
		r.nextID++
	}
	r.products[p.ID] = p
	return p, nil
}

// SetPrice changes a product price in place. Tests use it to simulate a
// catalog price change between cart mutations.
func (r *InMemoryRepository) SetPrice(id int, price float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p, ok := r.products[id]; ok {
		p.Price = price
		r.products[id] = p
	}
}
