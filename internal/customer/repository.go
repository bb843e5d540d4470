package customer

import (
	"context"
	"errors"
	"sync"
)

var (
	ErrNotFound           = errors.New("customer not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailExists        = errors.New("email already exists")
)

type Repository interface {
	GetByID(ctx context.Context, id int) (Customer, error)
	GetByEmail(ctx context.Context, email string) (Customer, error)
	Create(ctx context.Context, c Customer) (Customer, error)
	UpdatePassword(ctx context.Context, id int, hash string) error
}

type InMemoryRepository struct {
	mu        sync.RWMutex
	customers []Customer
	nextID    int
}

func NewInMemoryRepository(seed []Customer) *InMemoryRepository {
	repo := &InMemoryRepository{
		customers: make([]Customer, 0, len(seed)),
		nextID:    1,
	}

	maxID := 0
	for _, c := range seed {
		repo.customers = append(repo.customers, c)
		if c.ID > maxID {
			maxID = c.ID
		}
	}

	repo.nextID = maxID + 1
	return repo
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id int) (Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.customers {
		if c.ID == id {
			return c, nil
		}
	}
	return Customer{}, ErrNotFound
}

func (r *InMemoryRepository) GetByEmail(ctx context.Context, email string) (Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.customers {
		if c.Email == email {
			return c, nil
		}
	}
	return Customer{}, ErrNotFound
}

func (r *InMemoryRepository) Create(ctx context.Context, c Customer) (Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c.ID == 0 {
		c.ID = r.nextID
		r.nextID++
	}
	r.customers = append(r.customers, c)
	return c, nil
}

func (r *InMemoryRepository) UpdatePassword(ctx context.Context, id int, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, c := range r.customers {
		if c.ID == id {
			c.Password = hash
			r.customers[i] = c
			return nil
		}
	}
	return ErrNotFound
}
