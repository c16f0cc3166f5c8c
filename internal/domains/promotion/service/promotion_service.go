package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	customer "sales-backend/internal/domains/customer/model"
	"sales-backend/internal/domains/promotion/model"
	"sales-backend/internal/domains/promotion/repository"
	sale "sales-backend/internal/domains/sale/model"
)

// promotionService là facade quanh evaluator + calculator + coupon
// validator cho các user-facing flows
type promotionService struct {
	repo       repository.PromotionRepository
	evaluator  *EligibilityEvaluator
	calculator *DiscountCalculator
	coupons    *CouponValidator
}

func NewPromotionService(repo repository.PromotionRepository) ServiceInterface {
	evaluator := NewEligibilityEvaluator()
	return &promotionService{
		repo:       repo,
		evaluator:  evaluator,
		calculator: NewDiscountCalculator(),
		coupons:    NewCouponValidator(repo, evaluator),
	}
}

// ValidateCoupon validates coupon code với sale context
//
// Business Logic Flow:
// 1. Normalize code
// 2. Resolve coupon (lookup + active + eligibility checks)
// 3. Calculate discount amount
// 4. Return validation result
func (s *promotionService) ValidateCoupon(ctx context.Context, req *model.ValidateCouponRequest) (*model.CouponValidationResult, error) {
	req.NormalizeCode()

	items := toSaleItems(req.Items)
	cust := customerFromRequest(req)

	promo, err := s.coupons.ResolveCoupon(ctx, req.Code, cust, items, req.OrderAmount)
	if err != nil {
		return nil, err
	}

	discount := s.calculator.ComputeDiscount(promo, items, req.OrderAmount)

	return &model.CouponValidationResult{
		IsValid:        true,
		Promotion:      promo.ToInfo(),
		DiscountAmount: discount,
		FinalAmount:    req.OrderAmount.Sub(discount),
	}, nil
}

func (s *promotionService) ResolveCoupon(
	ctx context.Context,
	code string,
	cust *customer.Customer,
	items []sale.SaleItem,
	orderAmount decimal.Decimal,
) (*model.Promotion, error) {
	return s.coupons.ResolveCoupon(ctx, code, cust, items, orderAmount)
}

// ListAvailable trả về catalog promotions available tại thời điểm này
func (s *promotionService) ListAvailable(ctx context.Context) ([]*model.PromotionInfo, error) {
	promos, err := s.repo.ListAvailable(ctx, time.Now())
	if err != nil {
		return nil, fmt.Errorf("list available promotions: %w", err)
	}

	infos := make([]*model.PromotionInfo, len(promos))
	for i, promo := range promos {
		infos[i] = promo.ToInfo()
	}
	return infos, nil
}

func (s *promotionService) FindEligible(
	ctx context.Context,
	cust *customer.Customer,
	items []sale.SaleItem,
	orderAmount decimal.Decimal,
) ([]*model.Promotion, error) {
	catalog, err := s.repo.ListAvailable(ctx, time.Now())
	if err != nil {
		return nil, fmt.Errorf("list available promotions: %w", err)
	}

	return s.evaluator.FindEligible(catalog, cust, items, orderAmount), nil
}

func (s *promotionService) FindAutoApplicable(
	ctx context.Context,
	cust *customer.Customer,
	items []sale.SaleItem,
	orderAmount decimal.Decimal,
) ([]*model.Promotion, error) {
	catalog, err := s.repo.ListAvailable(ctx, time.Now())
	if err != nil {
		return nil, fmt.Errorf("list available promotions: %w", err)
	}

	return s.evaluator.FindAutoApplicable(catalog, cust, items, orderAmount), nil
}

func (s *promotionService) ComputeDiscount(promo *model.Promotion, items []sale.SaleItem, orderAmount decimal.Decimal) decimal.Decimal {
	return s.calculator.ComputeDiscount(promo, items, orderAmount)
}

// -------------------------------------------------------------------
// HELPER FUNCTIONS
// -------------------------------------------------------------------

// toSaleItems converts request items sang sale line items
func toSaleItems(inputs []model.SaleItemInput) []sale.SaleItem {
	items := make([]sale.SaleItem, len(inputs))
	for i, in := range inputs {
		items[i] = sale.SaleItem{
			Product: sale.Product{
				ID:       in.ProductID,
				Category: in.Category,
			},
			UnitPrice: in.UnitPrice,
			Quantity:  in.Quantity,
		}
	}
	return items
}

// customerFromRequest builds customer partial view từ JWT-provided fields
func customerFromRequest(req *model.ValidateCouponRequest) *customer.Customer {
	if req.CustomerID == nil {
		return nil
	}
	return &customer.Customer{
		ID:     *req.CustomerID,
		Groups: req.CustomerGroups,
	}
}
