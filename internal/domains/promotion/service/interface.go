package service

import (
	"context"

	"github.com/shopspring/decimal"

	customer "sales-backend/internal/domains/customer/model"
	"sales-backend/internal/domains/promotion/model"
	sale "sales-backend/internal/domains/sale/model"
)

type ServiceInterface interface {
	// ValidateCoupon validates coupon code với sale context từ request
	ValidateCoupon(ctx context.Context, req *model.ValidateCouponRequest) (*model.CouponValidationResult, error)

	// ResolveCoupon resolves code thành promotion, enforce eligibility
	ResolveCoupon(ctx context.Context, code string, cust *customer.Customer, items []sale.SaleItem, orderAmount decimal.Decimal) (*model.Promotion, error)

	// ListAvailable trả về catalog promotions available hiện tại
	ListAvailable(ctx context.Context) ([]*model.PromotionInfo, error)

	// FindEligible filters catalog theo sale context
	FindEligible(ctx context.Context, cust *customer.Customer, items []sale.SaleItem, orderAmount decimal.Decimal) ([]*model.Promotion, error)

	// FindAutoApplicable filters thêm theo auto-apply flag
	FindAutoApplicable(ctx context.Context, cust *customer.Customer, items []sale.SaleItem, orderAmount decimal.Decimal) ([]*model.Promotion, error)

	// ComputeDiscount tính clamped discount cho một promotion
	ComputeDiscount(promo *model.Promotion, items []sale.SaleItem, orderAmount decimal.Decimal) decimal.Decimal
}
