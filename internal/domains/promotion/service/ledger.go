package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"sales-backend/internal/domains/promotion/model"
	sale "sales-backend/internal/domains/sale/model"
)

// ApplicationLedger orchestrates apply/remove của promotions trên một
// sale: tạo/hủy AppliedPromotion record, recompute derived totals, và
// update usage counter — cả ba trong lockstep.
//
// In-memory only: persistence là trách nhiệm của caller. Các operations
// không được synchronize nội bộ; caller phải serialize apply/remove
// trên cùng một Sale và wrap persistence trong một transaction.
type ApplicationLedger struct {
	calculator *DiscountCalculator
}

func NewApplicationLedger(calculator *DiscountCalculator) *ApplicationLedger {
	return &ApplicationLedger{calculator: calculator}
}

// ApplyPromotion áp dụng một promotion vào sale.
//
// Flow:
// 1. Order amount = sale subtotal nếu có, fallback total amount
// 2. Compute discount qua calculator
// 3. Discount <= 0 → business-rule error, không mutation nào xảy ra
// 4. Append AppliedPromotion snapshot vào sale
// 5. Recompute totals
// 6. Increment promotion usage counter
func (l *ApplicationLedger) ApplyPromotion(
	s *sale.Sale,
	promo *model.Promotion,
	autoApplied bool,
) (*model.AppliedPromotion, error) {
	orderAmount := s.OrderAmount()

	discount := l.calculator.ComputeDiscount(promo, s.Items, orderAmount)
	if discount.LessThanOrEqual(decimal.Zero) {
		return nil, &model.AppError{
			Code:       model.ErrCodePromoZeroDiscount,
			Message:    "Promotion grants no discount for this order",
			HTTPStatus: 400,
			Details: map[string]interface{}{
				"promotion_id": promo.ID,
				"order_amount": orderAmount,
			},
		}
	}

	applied := model.AppliedPromotion{
		ID:             uuid.New(),
		SaleID:         s.ID,
		PromotionID:    promo.ID,
		PromotionName:  promo.Name,
		PromotionCode:  promo.Code,
		DiscountAmount: discount,
		OrderAmount:    orderAmount,
		AutoApplied:    autoApplied,
		AppliedAt:      time.Now(),
	}

	s.AppliedPromotions = append(s.AppliedPromotions, applied)
	l.UpdateTotals(s)
	promo.CurrentUses++

	return &applied, nil
}

// RemovePromotion gỡ promotion đầu tiên match promo.ID khỏi sale.
//
// Errors: "nothing applied" khi sale không có applied promotion nào,
// "not applied" khi không có record nào match. Totals không đổi trong
// cả hai trường hợp.
func (l *ApplicationLedger) RemovePromotion(s *sale.Sale, promo *model.Promotion) (*model.AppliedPromotion, error) {
	if len(s.AppliedPromotions) == 0 {
		return nil, &model.AppError{
			Code:       model.ErrCodePromoNothingApplied,
			Message:    "Sale has no applied promotions",
			HTTPStatus: 400,
		}
	}

	idx := -1
	for i, applied := range s.AppliedPromotions {
		if applied.PromotionID == promo.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, &model.AppError{
			Code:       model.ErrCodePromoNotApplied,
			Message:    "Promotion is not applied to this sale",
			HTTPStatus: 404,
			Details: map[string]interface{}{
				"promotion_id": promo.ID,
			},
		}
	}

	removed := s.AppliedPromotions[idx]
	s.AppliedPromotions = append(s.AppliedPromotions[:idx], s.AppliedPromotions[idx+1:]...)

	l.UpdateTotals(s)

	// Usage counter không bao giờ âm
	if promo.CurrentUses > 0 {
		promo.CurrentUses--
	}

	return &removed, nil
}

// UpdateTotals recompute derived totals của sale từ current state.
//
// Idempotent: gọi bao nhiêu lần cũng cho cùng kết quả với cùng state.
// Sale-level discount amount được recompute thuần túy từ
// BaseDiscountAmount (non-promotion baseline) + promotion discount,
// không accumulate qua các lần gọi.
func (l *ApplicationLedger) UpdateTotals(s *sale.Sale) {
	// Step 1: Original total = subtotal, fallback sum của line items
	original := s.ItemsTotal()
	if s.Subtotal != nil {
		original = *s.Subtotal
	}

	// Step 2: Promotion discount = sum của applied records
	promoDiscount := decimal.Zero
	for _, applied := range s.AppliedPromotions {
		promoDiscount = promoDiscount.Add(applied.DiscountAmount)
	}

	// Step 3: Final total = original − promotion discount + tax + shipping
	final := original.Sub(promoDiscount)
	if s.TaxAmount != nil {
		final = final.Add(*s.TaxAmount)
	}
	if s.ShippingCost != nil {
		final = final.Add(*s.ShippingCost)
	}

	s.OriginalTotal = original
	s.PromotionDiscountAmount = promoDiscount
	s.FinalTotal = final
	// Total amount kept mirrored với final total
	s.TotalAmount = final
	s.DiscountAmount = s.BaseDiscountAmount.Add(promoDiscount)
}
