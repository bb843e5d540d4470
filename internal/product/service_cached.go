package product

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// CachedService is a read-through cache in front of a ServiceInterface.
// Writes pass through and drop the affected keys.
type CachedService struct {
	next        ServiceInterface
	redisClient *redis.Client
	cacheTTL    time.Duration
}

func NewCachedService(next ServiceInterface, client *redis.Client, ttl time.Duration) *CachedService {
	return &CachedService{next: next, redisClient: client, cacheTTL: ttl}
}

func cacheKey(id int) string {
	return fmt.Sprintf("product:%d", id)
}

func (s *CachedService) List(ctx context.Context) ([]Product, error) {
	return s.next.List(ctx)
}

func (s *CachedService) GetByID(ctx context.Context, id int) (Product, error) {
	key := cacheKey(id)

	if val, err := s.redisClient.Get(ctx, key).Result(); err == nil {
		var p Product
		if err := json.Unmarshal([]byte(val), &p); err == nil {
			return p, nil
		}
	}

	p, err := s.next.GetByID(ctx, id)
	if err != nil {
		return Product{}, err
	}

	if data, err := json.Marshal(p); err == nil {
		s.redisClient.Set(ctx, key, data, s.cacheTTL)
	}

	return p, nil
}

func (s *CachedService) Create(ctx context.Context, p Product) (Product, error) {
	return s.next.Create(ctx, p)
}

func (s *CachedService) InvalidateCache(ctx context.Context, id int) {
	s.redisClient.Del(ctx, cacheKey(id))
	s.next.InvalidateCache(ctx, id)
}

var _ ServiceInterface = (*CachedService)(nil)
