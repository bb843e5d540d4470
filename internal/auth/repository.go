package auth

import (
	"context"
	"errors"
	"sync"
)

var ErrTokenNotFound = errors.New("token not found")

// TokenRepository stores issued tokens keyed by jti.
type TokenRepository interface {
	Create(ctx context.Context, t AuthToken) error
	FindByJTI(ctx context.Context, jti string) (AuthToken, error)
	DeleteByJTI(ctx context.Context, jti string) (bool, error)
}

// InMemoryTokenRepository is used for tests and local scenarios.
type InMemoryTokenRepository struct {
	mu     sync.RWMutex
	tokens map[string]AuthToken
}

func NewInMemoryTokenRepository() *InMemoryTokenRepository {
	return &InMemoryTokenRepository{tokens: make(map[string]AuthToken)}
}

func (r *InMemoryTokenRepository) Create(ctx context.Context, t AuthToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tokens[t.JTI] = t
	return nil
}

func (r *InMemoryTokenRepository) FindByJTI(ctx context.Context, jti string) (AuthToken, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tokens[jti]
	if !ok {
		return AuthToken{}, ErrTokenNotFound
	}
	return t, nil
}

func (r *InMemoryTokenRepository) DeleteByJTI(ctx context.Context, jti string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tokens[jti]; !ok {
		return false, nil
	}
	delete(r.tokens, jti)
	return true, nil
}
