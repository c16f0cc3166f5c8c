package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	customer "sales-backend/internal/domains/customer/model"
	"sales-backend/internal/domains/promotion/model"
	sale "sales-backend/internal/domains/sale/model"
)

func timePtr(t time.Time) *time.Time {
	return &t
}

func TestIsEligible_ActivityWindow(t *testing.T) {
	eval := NewEligibilityEvaluator()
	items := []sale.SaleItem{item("100.00", 1)}
	orderAmount := decimal.RequireFromString("100.00")

	tests := []struct {
		name     string
		startsAt *time.Time
		endsAt   *time.Time
		enabled  bool
		expected bool
	}{
		{
			name:     "open-ended window",
			enabled:  true,
			expected: true,
		},
		{
			name:     "inside window",
			startsAt: timePtr(time.Now().Add(-time.Hour)),
			endsAt:   timePtr(time.Now().Add(time.Hour)),
			enabled:  true,
			expected: true,
		},
		{
			name:     "not started yet",
			startsAt: timePtr(time.Now().Add(time.Hour)),
			enabled:  true,
			expected: false,
		},
		{
			name:     "already ended",
			endsAt:   timePtr(time.Now().Add(-time.Hour)),
			enabled:  true,
			expected: false,
		},
		{
			name:     "disabled",
			enabled:  false,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			promo := activePromotion(model.PromotionTypePercentage, "10")
			promo.IsEnabled = tt.enabled
			promo.StartsAt = tt.startsAt
			promo.EndsAt = tt.endsAt

			assert.Equal(t, tt.expected, eval.IsEligible(promo, nil, items, orderAmount))
		})
	}
}

func TestPromotionIsActiveAt_WindowBoundaries(t *testing.T) {
	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)

	promo := activePromotion(model.PromotionTypePercentage, "10")
	promo.StartsAt = &start
	promo.EndsAt = &end

	// Window là [starts_at, ends_at): start inclusive, end exclusive
	assert.False(t, promo.IsActiveAt(start.Add(-time.Second)))
	assert.True(t, promo.IsActiveAt(start))
	assert.True(t, promo.IsActiveAt(end.Add(-time.Second)))
	assert.False(t, promo.IsActiveAt(end))
}

func TestIsEligible_CustomerScope(t *testing.T) {
	eval := NewEligibilityEvaluator()
	items := []sale.SaleItem{item("100.00", 1)}
	orderAmount := decimal.RequireFromString("100.00")

	vip := &customer.Customer{ID: uuid.New(), Groups: []string{"vip"}}
	regular := &customer.Customer{ID: uuid.New(), Groups: []string{"regular"}}

	t.Run("unscoped promotion accepts everyone", func(t *testing.T) {
		promo := activePromotion(model.PromotionTypePercentage, "10")
		assert.True(t, eval.IsEligible(promo, vip, items, orderAmount))
		assert.True(t, eval.IsEligible(promo, nil, items, orderAmount))
	})

	t.Run("scoped promotion requires group membership", func(t *testing.T) {
		promo := activePromotion(model.PromotionTypePercentage, "10")
		promo.CustomerGroups = []string{"vip"}

		assert.True(t, eval.IsEligible(promo, vip, items, orderAmount))
		assert.False(t, eval.IsEligible(promo, regular, items, orderAmount))
	})

	t.Run("guest checkout fails scoped promotion", func(t *testing.T) {
		promo := activePromotion(model.PromotionTypePercentage, "10")
		promo.CustomerGroups = []string{"vip"}

		assert.False(t, eval.IsEligible(promo, nil, items, orderAmount))
	})
}

func TestIsEligible_MinimumOrderAmount(t *testing.T) {
	eval := NewEligibilityEvaluator()
	items := []sale.SaleItem{item("50.00", 1)}

	promo := activePromotion(model.PromotionTypePercentage, "10")
	promo.MinOrderAmount = decPtr("50.00")

	assert.True(t, eval.IsEligible(promo, nil, items, decimal.RequireFromString("50.00")))
	assert.False(t, eval.IsEligible(promo, nil, items, decimal.RequireFromString("49.99")))
}

func TestIsEligible_ProductScope(t *testing.T) {
	eval := NewEligibilityEvaluator()
	orderAmount := decimal.RequireFromString("100.00")

	scopedProduct := uuid.New()
	books := "books"

	promo := activePromotion(model.PromotionTypePercentage, "10")
	promo.ApplicableProductIDs = []uuid.UUID{scopedProduct}

	t.Run("matching product id", func(t *testing.T) {
		items := []sale.SaleItem{{Product: sale.Product{ID: scopedProduct}, UnitPrice: decimal.RequireFromString("100.00"), Quantity: 1}}
		assert.True(t, eval.IsEligible(promo, nil, items, orderAmount))
	})

	t.Run("no matching items", func(t *testing.T) {
		items := []sale.SaleItem{item("100.00", 1)}
		assert.False(t, eval.IsEligible(promo, nil, items, orderAmount))
	})

	t.Run("matching category", func(t *testing.T) {
		catPromo := activePromotion(model.PromotionTypePercentage, "10")
		catPromo.ApplicableCategories = []string{books}

		items := []sale.SaleItem{{Product: sale.Product{ID: uuid.New(), Category: &books}, UnitPrice: decimal.RequireFromString("10.00"), Quantity: 1}}
		assert.True(t, eval.IsEligible(catPromo, nil, items, orderAmount))
	})
}

func TestValidate_RecoverFromEvaluationFault(t *testing.T) {
	eval := NewEligibilityEvaluator()

	// nil promotion panics inside IsEligible; Validate downgrades to false
	assert.NotPanics(t, func() {
		eligible := eval.Validate(nil, nil, nil, decimal.Zero)
		assert.False(t, eligible)
	})
}

func TestFindEligible_PreservesOrderAndSkipsFaulty(t *testing.T) {
	eval := NewEligibilityEvaluator()
	items := []sale.SaleItem{item("100.00", 1)}
	orderAmount := decimal.RequireFromString("100.00")

	first := activePromotion(model.PromotionTypePercentage, "5")
	ineligible := activePromotion(model.PromotionTypePercentage, "10")
	ineligible.MinOrderAmount = decPtr("500.00")
	last := activePromotion(model.PromotionTypeFixedAmount, "2.00")

	catalog := []*model.Promotion{first, nil, ineligible, last}

	eligible := eval.FindEligible(catalog, nil, items, orderAmount)

	assert.Len(t, eligible, 2)
	assert.Equal(t, first.ID, eligible[0].ID)
	assert.Equal(t, last.ID, eligible[1].ID)
}

func TestFindAutoApplicable(t *testing.T) {
	eval := NewEligibilityEvaluator()
	items := []sale.SaleItem{item("100.00", 1)}
	orderAmount := decimal.RequireFromString("100.00")

	auto := activePromotion(model.PromotionTypePercentage, "5")
	auto.AutoApply = true
	coupon := activePromotion(model.PromotionTypePercentage, "10")
	coupon.Code = strPtr("SAVE10")

	applicable := eval.FindAutoApplicable([]*model.Promotion{auto, coupon}, nil, items, orderAmount)

	assert.Len(t, applicable, 1)
	assert.Equal(t, auto.ID, applicable[0].ID)
}
