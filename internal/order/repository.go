package order

import (
	"context"
	"errors"
	"sort"
	"sync"
)

var (
	ErrNotFound          = errors.New("order not found")
	ErrEmptyCart         = errors.New("cart is empty or missing")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrInvalidTransition = errors.New("status transition not allowed")
)

type Repository interface {
	Create(ctx context.Context, o Order) (Order, error)
	GetByID(ctx context.Context, id int) (Order, error)
	List(ctx context.Context) ([]Order, error)
	UpdateStatus(ctx context.Context, id int, status Status) error
	Delete(ctx context.Context, id int) error
}

type InMemoryRepository struct {
	mu     sync.RWMutex
	orders map[int]Order
	nextID int
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{orders: make(map[int]Order), nextID: 1}
}

func (r *InMemoryRepository) Create(ctx context.Context, o Order) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o.ID = r.nextID
	r.nextID++
	r.orders[o.ID] = cloneOrder(o)
	return o, nil
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id int) (Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.orders[id]
	if !ok {
		return Order{}, ErrNotFound
	}
	return cloneOrder(o), nil
}

func (r *InMemoryRepository) List(ctx context.Context) ([]Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Order, 0, len(r.orders))
	for _, o := range r.orders {
		out = append(out, cloneOrder(o))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *InMemoryRepository) UpdateStatus(ctx context.Context, id int, status Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[id]
	if !ok {
		return ErrNotFound
	}
	o.Status = status
	r.orders[id] = o
	return nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[id]; !ok {
		return ErrNotFound
	}
	delete(r.orders, id)
	return nil
}

func cloneOrder(o Order) Order {
	lines := make([]Line, len(o.Lines))
	copy(lines, o.Lines)
	o.Lines = lines
	return o
}
