package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	customer "sales-backend/internal/domains/customer/model"
	"sales-backend/internal/domains/promotion/model"
	"sales-backend/internal/domains/promotion/repository"
	sale "sales-backend/internal/domains/sale/model"
)

// CouponValidator là thin layer trên EligibilityEvaluator: resolve một
// human-entered code thành promotion và enforce cùng eligibility rules.
type CouponValidator struct {
	repo      repository.PromotionRepository
	evaluator *EligibilityEvaluator
}

func NewCouponValidator(repo repository.PromotionRepository, evaluator *EligibilityEvaluator) *CouponValidator {
	return &CouponValidator{
		repo:      repo,
		evaluator: evaluator,
	}
}

// ResolveCoupon resolves coupon code thành promotion.
//
// Error cases:
// - PROMO_INVALID_CODE: code không tồn tại
// - PROMO_NOT_ACTIVE: promotion ngoài activity window hoặc disabled
// - PROMO_NOT_APPLICABLE: order không đạt eligibility rules
//
// Không side effects — application là bước riêng qua ledger.
func (v *CouponValidator) ResolveCoupon(
	ctx context.Context,
	code string,
	cust *customer.Customer,
	items []sale.SaleItem,
	orderAmount decimal.Decimal,
) (*model.Promotion, error) {
	promo, err := v.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, model.ErrPromotionNotFound) {
			return nil, model.ErrInvalidCouponCode
		}
		return nil, fmt.Errorf("find promotion by code: %w", err)
	}

	if !promo.IsActiveNow() {
		return nil, model.ErrPromotionNotActive
	}

	if !v.evaluator.IsEligible(promo, cust, items, orderAmount) {
		return nil, model.ErrPromotionNotApplicable
	}

	return promo, nil
}
