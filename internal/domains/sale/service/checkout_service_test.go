package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	promomodel "sales-backend/internal/domains/promotion/model"
	promoservice "sales-backend/internal/domains/promotion/service"
	"sales-backend/internal/domains/sale/model"
)

// ===== MOCKS =====

type mockSaleRepo struct {
	sales       map[uuid.UUID]*model.Sale
	savedDeltas map[uuid.UUID]int
	saveCalls   int
}

func newMockSaleRepo(sales ...*model.Sale) *mockSaleRepo {
	m := &mockSaleRepo{sales: make(map[uuid.UUID]*model.Sale)}
	for _, s := range sales {
		m.sales[s.ID] = s
	}
	return m
}

func (m *mockSaleRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Sale, error) {
	s, ok := m.sales[id]
	if !ok {
		return nil, model.ErrSaleNotFound
	}
	return s, nil
}

func (m *mockSaleRepo) Save(_ context.Context, sale *model.Sale, usageDeltas map[uuid.UUID]int) error {
	m.sales[sale.ID] = sale
	m.savedDeltas = usageDeltas
	m.saveCalls++
	return nil
}

type mockPromoRepo struct {
	promotions []*promomodel.Promotion
}

func (m *mockPromoRepo) FindByID(_ context.Context, id uuid.UUID) (*promomodel.Promotion, error) {
	for _, p := range m.promotions {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, promomodel.ErrPromotionNotFound
}

func (m *mockPromoRepo) FindByCode(_ context.Context, code string) (*promomodel.Promotion, error) {
	for _, p := range m.promotions {
		if p.Code != nil && *p.Code == code {
			return p, nil
		}
	}
	return nil, promomodel.ErrPromotionNotFound
}

func (m *mockPromoRepo) ListAvailable(_ context.Context, at time.Time) ([]*promomodel.Promotion, error) {
	var available []*promomodel.Promotion
	for _, p := range m.promotions {
		if p.IsActiveAt(at) {
			available = append(available, p)
		}
	}
	return available, nil
}

// ===== FIXTURES =====

func testSale(status string) *model.Sale {
	unit := decimal.RequireFromString("50.00")
	s := &model.Sale{
		ID:         uuid.New(),
		SaleNumber: "SO-2001",
		Status:     status,
		Items: []model.SaleItem{
			{ID: uuid.New(), Product: model.Product{ID: uuid.New(), Name: "widget"}, UnitPrice: unit, Quantity: 2},
		},
	}
	promoservice.NewApplicationLedger(promoservice.NewDiscountCalculator()).UpdateTotals(s)
	return s
}

func percentPromotion(code string, value string) *promomodel.Promotion {
	return &promomodel.Promotion{
		ID:            uuid.New(),
		Name:          code + " promotion",
		Type:          promomodel.PromotionTypePercentage,
		DiscountValue: decimal.RequireFromString(value),
		Code:          &code,
		IsEnabled:     true,
	}
}

func newService(saleRepo *mockSaleRepo, promoRepo *mockPromoRepo) ServiceInterface {
	return NewCheckoutService(
		saleRepo,
		promoRepo,
		promoservice.NewPromotionService(promoRepo),
		promoservice.NewApplicationLedger(promoservice.NewDiscountCalculator()),
	)
}

// ===== TESTS =====

func TestApplyCoupon(t *testing.T) {
	ctx := context.Background()

	t.Run("applies and persists with usage delta", func(t *testing.T) {
		s := testSale(model.SaleStatusDraft)
		promo := percentPromotion("SAVE10", "10")

		saleRepo := newMockSaleRepo(s)
		svc := newService(saleRepo, &mockPromoRepo{promotions: []*promomodel.Promotion{promo}})

		updated, err := svc.ApplyCoupon(ctx, s.ID, "SAVE10", nil)
		require.NoError(t, err)

		require.Len(t, updated.AppliedPromotions, 1)
		assert.True(t, updated.FinalTotal.Equal(decimal.RequireFromString("90.00")))
		assert.Equal(t, 1, saleRepo.saveCalls)
		assert.Equal(t, map[uuid.UUID]int{promo.ID: 1}, saleRepo.savedDeltas)
	})

	t.Run("rejects duplicate application", func(t *testing.T) {
		s := testSale(model.SaleStatusDraft)
		promo := percentPromotion("SAVE10", "10")

		saleRepo := newMockSaleRepo(s)
		svc := newService(saleRepo, &mockPromoRepo{promotions: []*promomodel.Promotion{promo}})

		_, err := svc.ApplyCoupon(ctx, s.ID, "SAVE10", nil)
		require.NoError(t, err)

		_, err = svc.ApplyCoupon(ctx, s.ID, "SAVE10", nil)
		require.Error(t, err)

		var appErr *promomodel.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, promomodel.ErrCodePromoAlreadyApplied, appErr.Code)
		assert.Equal(t, 1, saleRepo.saveCalls)
	})

	t.Run("rejects non-draft sale", func(t *testing.T) {
		s := testSale(model.SaleStatusConfirmed)
		promo := percentPromotion("SAVE10", "10")

		svc := newService(newMockSaleRepo(s), &mockPromoRepo{promotions: []*promomodel.Promotion{promo}})

		_, err := svc.ApplyCoupon(ctx, s.ID, "SAVE10", nil)
		assert.ErrorIs(t, err, model.ErrSaleNotMutable)
	})

	t.Run("unknown sale", func(t *testing.T) {
		svc := newService(newMockSaleRepo(), &mockPromoRepo{})

		_, err := svc.ApplyCoupon(ctx, uuid.New(), "SAVE10", nil)
		assert.ErrorIs(t, err, model.ErrSaleNotFound)
	})

	t.Run("invalid code does not persist", func(t *testing.T) {
		s := testSale(model.SaleStatusDraft)
		saleRepo := newMockSaleRepo(s)
		svc := newService(saleRepo, &mockPromoRepo{})

		_, err := svc.ApplyCoupon(ctx, s.ID, "NOPE", nil)
		require.Error(t, err)
		assert.Equal(t, 0, saleRepo.saveCalls)
	})
}

func TestApplyAutoPromotions(t *testing.T) {
	ctx := context.Background()

	t.Run("applies eligible auto promotions, skips zero discount", func(t *testing.T) {
		s := testSale(model.SaleStatusDraft)

		auto := percentPromotion("", "5")
		auto.Code = nil
		auto.AutoApply = true

		zero := &promomodel.Promotion{
			ID:            uuid.New(),
			Name:          "free shipping",
			Type:          promomodel.PromotionTypeFreeShipping,
			DiscountValue: decimal.Zero,
			AutoApply:     true,
			IsEnabled:     true,
		}

		coupon := percentPromotion("SAVE10", "10") // không auto-apply

		saleRepo := newMockSaleRepo(s)
		svc := newService(saleRepo, &mockPromoRepo{promotions: []*promomodel.Promotion{auto, zero, coupon}})

		updated, applied, err := svc.ApplyAutoPromotions(ctx, s.ID, nil)
		require.NoError(t, err)

		require.Len(t, applied, 1)
		assert.Equal(t, auto.ID, applied[0].PromotionID)
		assert.True(t, applied[0].AutoApplied)
		assert.True(t, updated.FinalTotal.Equal(decimal.RequireFromString("95.00")))
		assert.Equal(t, map[uuid.UUID]int{auto.ID: 1}, saleRepo.savedDeltas)
	})

	t.Run("no candidates means no write", func(t *testing.T) {
		s := testSale(model.SaleStatusDraft)
		saleRepo := newMockSaleRepo(s)
		svc := newService(saleRepo, &mockPromoRepo{})

		updated, applied, err := svc.ApplyAutoPromotions(ctx, s.ID, nil)
		require.NoError(t, err)
		assert.Empty(t, applied)
		assert.Equal(t, 0, saleRepo.saveCalls)
		assert.True(t, updated.FinalTotal.Equal(decimal.RequireFromString("100.00")))
	})

	t.Run("already applied candidates are skipped", func(t *testing.T) {
		s := testSale(model.SaleStatusDraft)

		auto := percentPromotion("", "5")
		auto.Code = nil
		auto.AutoApply = true

		saleRepo := newMockSaleRepo(s)
		svc := newService(saleRepo, &mockPromoRepo{promotions: []*promomodel.Promotion{auto}})

		_, applied, err := svc.ApplyAutoPromotions(ctx, s.ID, nil)
		require.NoError(t, err)
		require.Len(t, applied, 1)

		_, applied, err = svc.ApplyAutoPromotions(ctx, s.ID, nil)
		require.NoError(t, err)
		assert.Empty(t, applied)
		assert.Equal(t, 1, saleRepo.saveCalls)
	})
}

func TestListEligiblePromotions(t *testing.T) {
	ctx := context.Background()

	s := testSale(model.SaleStatusDraft)

	eligible := percentPromotion("SAVE10", "10")
	tooBig := percentPromotion("BIG", "20")
	min := decimal.RequireFromString("500.00")
	tooBig.MinOrderAmount = &min

	svc := newService(newMockSaleRepo(s), &mockPromoRepo{promotions: []*promomodel.Promotion{eligible, tooBig}})

	infos, err := svc.ListEligiblePromotions(ctx, s.ID, nil)
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, eligible.ID, infos[0].ID)
}

func TestRemovePromotion(t *testing.T) {
	ctx := context.Background()

	t.Run("removes and persists negative delta", func(t *testing.T) {
		s := testSale(model.SaleStatusDraft)
		promo := percentPromotion("SAVE10", "10")

		saleRepo := newMockSaleRepo(s)
		svc := newService(saleRepo, &mockPromoRepo{promotions: []*promomodel.Promotion{promo}})

		_, err := svc.ApplyCoupon(ctx, s.ID, "SAVE10", nil)
		require.NoError(t, err)

		updated, err := svc.RemovePromotion(ctx, s.ID, promo.ID)
		require.NoError(t, err)

		assert.Empty(t, updated.AppliedPromotions)
		assert.True(t, updated.FinalTotal.Equal(decimal.RequireFromString("100.00")))
		assert.Equal(t, map[uuid.UUID]int{promo.ID: -1}, saleRepo.savedDeltas)
	})

	t.Run("not applied promotion returns not found", func(t *testing.T) {
		s := testSale(model.SaleStatusDraft)
		applied := percentPromotion("SAVE10", "10")
		other := percentPromotion("OTHER", "5")

		saleRepo := newMockSaleRepo(s)
		svc := newService(saleRepo, &mockPromoRepo{promotions: []*promomodel.Promotion{applied, other}})

		_, err := svc.ApplyCoupon(ctx, s.ID, "SAVE10", nil)
		require.NoError(t, err)
		before := s.FinalTotal

		_, err = svc.RemovePromotion(ctx, s.ID, other.ID)
		require.Error(t, err)

		var appErr *promomodel.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, promomodel.ErrCodePromoNotApplied, appErr.Code)
		assert.True(t, s.FinalTotal.Equal(before))
	})

	t.Run("deleted promotion record still removable", func(t *testing.T) {
		s := testSale(model.SaleStatusDraft)
		promo := percentPromotion("SAVE10", "10")

		saleRepo := newMockSaleRepo(s)
		promoRepo := &mockPromoRepo{promotions: []*promomodel.Promotion{promo}}
		svc := newService(saleRepo, promoRepo)

		_, err := svc.ApplyCoupon(ctx, s.ID, "SAVE10", nil)
		require.NoError(t, err)

		// promotion bị xóa khỏi catalog sau khi apply
		promoRepo.promotions = nil

		updated, err := svc.RemovePromotion(ctx, s.ID, promo.ID)
		require.NoError(t, err)

		assert.Empty(t, updated.AppliedPromotions)
		assert.Empty(t, saleRepo.savedDeltas)
	})
}
