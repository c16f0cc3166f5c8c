package service

import (
	"context"

	"github.com/google/uuid"

	customer "sales-backend/internal/domains/customer/model"
	promotion "sales-backend/internal/domains/promotion/model"
	"sales-backend/internal/domains/sale/model"
)

type ServiceInterface interface {
	// GetSale loads sale kèm items và applied promotions
	GetSale(ctx context.Context, id uuid.UUID) (*model.Sale, error)

	// ListEligiblePromotions trả về các promotions eligible với sale
	// context hiện tại (không apply gì cả)
	ListEligiblePromotions(ctx context.Context, saleID uuid.UUID, cust *customer.Customer) ([]*promotion.PromotionInfo, error)

	// ApplyCoupon validates coupon code và applies promotion vào sale
	ApplyCoupon(ctx context.Context, saleID uuid.UUID, code string, cust *customer.Customer) (*model.Sale, error)

	// ApplyAutoPromotions applies mọi auto-apply promotion eligible với sale.
	// Candidates với zero discount được skip, không fail cả batch.
	ApplyAutoPromotions(ctx context.Context, saleID uuid.UUID, cust *customer.Customer) (*model.Sale, []*promotion.AppliedPromotion, error)

	// RemovePromotion gỡ một applied promotion khỏi sale
	RemovePromotion(ctx context.Context, saleID uuid.UUID, promotionID uuid.UUID) (*model.Sale, error)
}
