package customer

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/shopcore/shop-backend/internal/auth"
)

type Service struct {
	repo   Repository
	hasher *auth.Hasher
	logger *zap.Logger
}

func NewService(repo Repository, hasher *auth.Hasher, logger *zap.Logger) *Service {
	return &Service{repo: repo, hasher: hasher, logger: logger}
}

func (s *Service) GetByID(ctx context.Context, id int) (Customer, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Register(ctx context.Context, c Customer, rawPassword string) (Customer, error) {
	if _, err := s.repo.GetByEmail(ctx, c.Email); err == nil {
		return Customer{}, ErrEmailExists
	} else if !errors.Is(err, ErrNotFound) {
		return Customer{}, err
	}

	hashed, err := s.hasher.Hash(rawPassword)
	if err != nil {
		return Customer{}, err
	}

	c.Password = hashed
	return s.repo.Create(ctx, c)
}

// Authenticate verifies credentials. When the stored hash needs an upgrade
// the rehash runs on its own goroutine so the login response never waits on
// it.
func (s *Service) Authenticate(ctx context.Context, email, password string) (Customer, error) {
	c, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return Customer{}, ErrInvalidCredentials
	}

	result := s.hasher.Verify(c.Password, password)
	if !result.Valid {
		return Customer{}, ErrInvalidCredentials
	}

	if result.NeedsRehash {
		go s.rehash(c.ID, password)
	}

	return c, nil
}

func (s *Service) rehash(customerID int, password string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		s.logger.Warn("password rehash failed", zap.Int("customerId", customerID), zap.Error(err))
		return
	}
	if err := s.repo.UpdatePassword(ctx, customerID, hashed); err != nil {
		s.logger.Warn("password rehash store failed", zap.Int("customerId", customerID), zap.Error(err))
	}
}
