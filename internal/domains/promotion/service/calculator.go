package service

import (
	"time"

	"github.com/shopspring/decimal"

	"sales-backend/internal/domains/promotion/model"
	sale "sales-backend/internal/domains/sale/model"
)

var oneHundred = decimal.NewFromInt(100)

// discountStrategy tính raw discount cho một promotion type.
// Nhận promotion + applicable amount, trả về discount trước clamping.
type discountStrategy func(promo *model.Promotion, applicable decimal.Decimal) decimal.Decimal

// DiscountCalculator xử lý logic tính toán discount
type DiscountCalculator struct {
	strategies map[model.PromotionType]discountStrategy
}

// NewDiscountCalculator tạo instance với strategy cho từng promotion type
func NewDiscountCalculator() *DiscountCalculator {
	return &DiscountCalculator{
		strategies: map[model.PromotionType]discountStrategy{
			model.PromotionTypePercentage:   percentageDiscount,
			model.PromotionTypeFixedAmount:  fixedAmountDiscount,
			model.PromotionTypeFreeShipping: zeroDiscount,
			// buy_x_get_y chưa được implement: placeholder trả về 0.
			// Thay entry này khi có thuật toán thật, các branch khác
			// không cần đụng tới.
			model.PromotionTypeBuyXGetY: zeroDiscount,
		},
	}
}

// percentageDiscount: applicable × value / 100, làm tròn 2 chữ số thập
// phân, round half-up
func percentageDiscount(promo *model.Promotion, applicable decimal.Decimal) decimal.Decimal {
	return applicable.Mul(promo.DiscountValue).Div(oneHundred).Round(2)
}

// fixedAmountDiscount: discount value verbatim, không scale theo
// applicable amount (clamping xử lý ở ComputeDiscount)
func fixedAmountDiscount(promo *model.Promotion, _ decimal.Decimal) decimal.Decimal {
	return promo.DiscountValue
}

// zeroDiscount: free_shipping waiver được áp dụng ở shipping layer,
// không phải ở đây; buy_x_get_y là known stub
func zeroDiscount(_ *model.Promotion, _ decimal.Decimal) decimal.Decimal {
	return decimal.Zero
}

// ApplicableAmount tính phần line-item value mà promotion scope cover:
// sum unitPrice × quantity trên các items match scope (toàn bộ items
// khi scope rỗng).
//
// Đây là base cho percentage/fixed computation và clamping. LƯU Ý:
// amount này KHÔNG bị trừ đi discount của các promotions khác đã apply
// lên cùng sale — stacking là additive trên cùng base, không phải
// sequential/compounding.
func (c *DiscountCalculator) ApplicableAmount(promo *model.Promotion, items []sale.SaleItem) decimal.Decimal {
	scope := promo.Scope()

	total := decimal.Zero
	for _, item := range items {
		if scope.Matches(item.Product.ID, item.Product.Category) {
			total = total.Add(item.LineTotal())
		}
	}
	return total
}

// ComputeDiscount tính clamped discount amount cho một promotion.
//
// Short-circuits về zero khi:
//   - promotion không active
//   - minimum order amount set và chưa đạt
//   - applicable amount <= 0
//
// Post-processing theo thứ tự: cap theo max_discount_amount, cap theo
// applicable amount, floor tại zero. Kết quả luôn >= 0 và
// <= min(applicableAmount, maxDiscountAmount).
func (c *DiscountCalculator) ComputeDiscount(
	promo *model.Promotion,
	items []sale.SaleItem,
	orderAmount decimal.Decimal,
) decimal.Decimal {
	if !promo.IsActiveAt(time.Now()) {
		return decimal.Zero
	}

	if promo.MinOrderAmount != nil && orderAmount.LessThan(*promo.MinOrderAmount) {
		return decimal.Zero
	}

	applicable := c.ApplicableAmount(promo, items)
	if applicable.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	strategy, ok := c.strategies[promo.Type]
	if !ok {
		return decimal.Zero
	}

	discount := strategy(promo, applicable)

	// Cap theo max discount amount nếu có
	if promo.MaxDiscountAmount != nil && discount.GreaterThan(*promo.MaxDiscountAmount) {
		discount = *promo.MaxDiscountAmount
	}

	// Discount không được vượt quá applicable amount
	if discount.GreaterThan(applicable) {
		discount = applicable
	}

	// Floor tại zero
	if discount.LessThan(decimal.Zero) {
		discount = decimal.Zero
	}

	return discount
}
