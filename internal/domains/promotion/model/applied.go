package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AppliedPromotion là join record ghi lại effect của một promotion trên
// một sale tại thời điểm apply.
//
// Created by the ledger's apply, destroyed by remove, never mutated
// otherwise. Owned exclusively by the Sale: the sale's applied-promotions
// collection is the only reachability path.
type AppliedPromotion struct {
	ID          uuid.UUID `json:"id" db:"id"`
	SaleID      uuid.UUID `json:"sale_id" db:"sale_id"`
	PromotionID uuid.UUID `json:"promotion_id" db:"promotion_id"`

	// Snapshots for auditability
	PromotionName  string          `json:"promotion_name" db:"promotion_name"`
	PromotionCode  *string         `json:"promotion_code,omitempty" db:"promotion_code"`
	DiscountAmount decimal.Decimal `json:"discount_amount" db:"discount_amount"`
	OrderAmount    decimal.Decimal `json:"order_amount" db:"order_amount"`

	AutoApplied bool      `json:"auto_applied" db:"auto_applied"`
	AppliedAt   time.Time `json:"applied_at" db:"applied_at"`
}
