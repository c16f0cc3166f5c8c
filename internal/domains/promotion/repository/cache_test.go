package repository

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sales-backend/internal/domains/promotion/model"
)

// ===== FAKES =====

type fakeCache struct {
	entries map[string][]byte
	getErr  error
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]byte)}
}

func (f *fakeCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	if f.getErr != nil {
		return false, f.getErr
	}
	raw, ok := f.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (f *fakeCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.entries[key] = raw
	return nil
}

func (f *fakeCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.entries, k)
	}
	return nil
}

func (f *fakeCache) Ping(_ context.Context) error { return nil }

type stubRepo struct {
	promotions []*model.Promotion
	calls      int
}

func (s *stubRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Promotion, error) {
	s.calls++
	for _, p := range s.promotions {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, model.ErrPromotionNotFound
}

func (s *stubRepo) FindByCode(_ context.Context, code string) (*model.Promotion, error) {
	s.calls++
	for _, p := range s.promotions {
		if p.Code != nil && *p.Code == code {
			return p, nil
		}
	}
	return nil, model.ErrPromotionNotFound
}

func (s *stubRepo) ListAvailable(_ context.Context, _ time.Time) ([]*model.Promotion, error) {
	s.calls++
	return s.promotions, nil
}

// ===== TESTS =====

func cachedPromotion(code string) *model.Promotion {
	return &model.Promotion{
		ID:            uuid.New(),
		Name:          "cached promotion",
		Type:          model.PromotionTypePercentage,
		DiscountValue: decimal.RequireFromString("10"),
		Code:          &code,
		IsEnabled:     true,
	}
}

func TestCachedRepository_FindByCode(t *testing.T) {
	ctx := context.Background()

	t.Run("second lookup served from cache", func(t *testing.T) {
		promo := cachedPromotion("SAVE10")
		inner := &stubRepo{promotions: []*model.Promotion{promo}}
		repo := NewCachedRepository(inner, newFakeCache(), time.Minute)

		first, err := repo.FindByCode(ctx, "SAVE10")
		require.NoError(t, err)
		assert.Equal(t, 1, inner.calls)

		second, err := repo.FindByCode(ctx, "SAVE10")
		require.NoError(t, err)
		assert.Equal(t, 1, inner.calls)
		assert.Equal(t, first.ID, second.ID)
	})

	t.Run("miss falls through and not-found is not cached", func(t *testing.T) {
		inner := &stubRepo{}
		repo := NewCachedRepository(inner, newFakeCache(), time.Minute)

		_, err := repo.FindByCode(ctx, "NOPE")
		assert.ErrorIs(t, err, model.ErrPromotionNotFound)

		_, err = repo.FindByCode(ctx, "NOPE")
		assert.ErrorIs(t, err, model.ErrPromotionNotFound)
		assert.Equal(t, 2, inner.calls)
	})

	t.Run("cache errors fall through to repo", func(t *testing.T) {
		promo := cachedPromotion("SAVE10")
		inner := &stubRepo{promotions: []*model.Promotion{promo}}
		cache := newFakeCache()
		cache.getErr = errors.New("redis down")
		repo := NewCachedRepository(inner, cache, time.Minute)

		got, err := repo.FindByCode(ctx, "SAVE10")
		require.NoError(t, err)
		assert.Equal(t, promo.ID, got.ID)
	})
}

func TestCachedRepository_ListAvailable(t *testing.T) {
	ctx := context.Background()

	promo := cachedPromotion("SAVE10")
	inner := &stubRepo{promotions: []*model.Promotion{promo}}
	repo := NewCachedRepository(inner, newFakeCache(), time.Minute)

	first, err := repo.ListAvailable(ctx, time.Now())
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, 1, inner.calls)

	second, err := repo.ListAvailable(ctx, time.Now())
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, promo.ID, second[0].ID)
}

func TestCachedRepository_FindByIDBypassesCache(t *testing.T) {
	promo := cachedPromotion("SAVE10")
	inner := &stubRepo{promotions: []*model.Promotion{promo}}
	repo := NewCachedRepository(inner, newFakeCache(), time.Minute)

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		got, err := repo.FindByID(ctx, promo.ID)
		require.NoError(t, err)
		assert.Equal(t, promo.ID, got.ID)
	}
	assert.Equal(t, 2, inner.calls)
}
