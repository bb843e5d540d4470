package product

import "context"

// ServiceInterface is what other components depend on when they need catalog
// reads. Both Service and CachedService satisfy it.
type ServiceInterface interface {
	List(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id int) (Product, error)
	Create(ctx context.Context, p Product) (Product, error)
	InvalidateCache(ctx context.Context, id int)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]Product, error) {
	return s.repo.List(ctx)
}

func (s *Service) GetByID(ctx context.Context, id int) (Product, error) {
	if id <= 0 {
		return Product{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, p Product) (Product, error) {
	return s.repo.Create(ctx, p)
}

// InvalidateCache is a no-op on the uncached service. The review component
// calls it after a rating recompute so a cached wrapper can drop stale reads.
func (s *Service) InvalidateCache(ctx context.Context, id int) {}

var _ ServiceInterface = (*Service)(nil)
