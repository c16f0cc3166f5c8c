package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"sales-backend/internal/domains/promotion/model"
	"sales-backend/pkg/cache"
	"sales-backend/pkg/logger"
)

// Cache keys
const (
	cacheKeyAvailable  = "promotions:available"
	cacheKeyCodePrefix = "promotions:code:"
)

// CachedRepository là decorator thêm Redis cache lên PromotionRepository.
// Cache misses và cache errors đều fall through xuống repo gốc.
type CachedRepository struct {
	inner PromotionRepository
	cache cache.Cache
	ttl   time.Duration
}

func NewCachedRepository(inner PromotionRepository, c cache.Cache, ttl time.Duration) PromotionRepository {
	return &CachedRepository{
		inner: inner,
		cache: c,
		ttl:   ttl,
	}
}

// FindByID không cache: lookups theo ID chỉ xảy ra trong checkout flow,
// nơi cần dữ liệu mới nhất (current_uses).
func (r *CachedRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Promotion, error) {
	return r.inner.FindByID(ctx, id)
}

// FindByCode cache theo normalized code
func (r *CachedRepository) FindByCode(ctx context.Context, code string) (*model.Promotion, error) {
	key := cacheKeyCodePrefix + strings.ToUpper(strings.TrimSpace(code))

	var cached model.Promotion
	found, err := r.cache.Get(ctx, key, &cached)
	if err != nil {
		logger.Warn("Cache get failed, falling back to database", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
	if found {
		return &cached, nil
	}

	p, err := r.inner.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if err := r.cache.Set(ctx, key, p, r.ttl); err != nil {
		logger.Warn("Cache set failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}

	return p, nil
}

// ListAvailable cache toàn bộ catalog với TTL ngắn.
// Key không phụ thuộc vào at: TTL đủ ngắn để window changes được pick up.
func (r *CachedRepository) ListAvailable(ctx context.Context, at time.Time) ([]*model.Promotion, error) {
	var cached []*model.Promotion
	found, err := r.cache.Get(ctx, cacheKeyAvailable, &cached)
	if err != nil {
		logger.Warn("Cache get failed, falling back to database", map[string]interface{}{
			"key":   cacheKeyAvailable,
			"error": err.Error(),
		})
	}
	if found {
		return cached, nil
	}

	promotions, err := r.inner.ListAvailable(ctx, at)
	if err != nil {
		return nil, err
	}

	if err := r.cache.Set(ctx, cacheKeyAvailable, promotions, r.ttl); err != nil {
		logger.Warn("Cache set failed", map[string]interface{}{
			"key":   cacheKeyAvailable,
			"error": err.Error(),
		})
	}

	return promotions, nil
}

var _ PromotionRepository = (*CachedRepository)(nil)
