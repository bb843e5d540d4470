package payment

import (
	"context"
	"errors"
	"sync"
)

var (
	ErrNotFound      = errors.New("payment not found")
	ErrOrderNotFound = errors.New("order not found")
	ErrDuplicate     = errors.New("payment already exists for order")
	ErrInvalidStatus = errors.New("unknown payment status")
)

type Repository interface {
	Create(ctx context.Context, p Payment) (Payment, error)
	GetByID(ctx context.Context, id int) (Payment, error)
	FindByOrder(ctx context.Context, orderID int) (Payment, error)
	UpdateStatus(ctx context.Context, id int, status Status) error
}

type InMemoryRepository struct {
	mu       sync.RWMutex
	payments map[int]Payment
	nextID   int
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{payments: make(map[int]Payment), nextID: 1}
}

func (r *InMemoryRepository) Create(ctx context.Context, p Payment) (Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.payments {
		if existing.OrderID == p.OrderID {
			return Payment{}, ErrDuplicate
		}
	}

	p.ID = r.nextID
	r.nextID++
	r.payments[p.ID] = p
	return p, nil
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id int) (Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.payments[id]
	if !ok {
		return Payment{}, ErrNotFound
	}
	return p, nil
}

func (r *InMemoryRepository) FindByOrder(ctx context.Context, orderID int) (Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.payments {
		if p.OrderID == orderID {
			return p, nil
		}
	}
	return Payment{}, ErrNotFound
}

func (r *InMemoryRepository) UpdateStatus(ctx context.Context, id int, status Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.payments[id]
	if !ok {
		return ErrNotFound
	}
	p.Status = status
	r.payments[id] = p
	return nil
}
