package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	promotion "sales-backend/internal/domains/promotion/model"
)

// =====================================================
// SALE STATUS CONSTANTS
// =====================================================
const (
	SaleStatusDraft     = "draft"
	SaleStatusConfirmed = "confirmed"
	SaleStatusCancelled = "cancelled"
)

// =====================================================
// ENTITY: Sale
// =====================================================

// Sale giữ line items và các derived totals.
//
// Invariant sau mỗi ledger operation:
//
//	FinalTotal = OriginalTotal − PromotionDiscountAmount + TaxAmount + ShippingCost
//	TotalAmount == FinalTotal
type Sale struct {
	ID         uuid.UUID  `json:"id"`
	SaleNumber string     `json:"sale_number"`
	CustomerID *uuid.UUID `json:"customer_id,omitempty"`
	Status     string     `json:"status"`

	// Pre-discount, pre-tax sum of line items. Nil when the sale was
	// built without an explicit subtotal (totals fall back to summing
	// the current items).
	Subtotal *decimal.Decimal `json:"subtotal,omitempty"`

	// Derived totals, maintained by the promotion ledger
	OriginalTotal           decimal.Decimal `json:"original_total"`
	PromotionDiscountAmount decimal.Decimal `json:"promotion_discount_amount"`
	// Non-promotion discount baseline (manual markdowns etc.), kept
	// separate so totals stay a pure function of current state
	BaseDiscountAmount decimal.Decimal `json:"base_discount_amount"`
	DiscountAmount     decimal.Decimal `json:"discount_amount"`

	TaxAmount    *decimal.Decimal `json:"tax_amount,omitempty"`
	ShippingCost *decimal.Decimal `json:"shipping_cost,omitempty"`

	FinalTotal  decimal.Decimal `json:"final_total"`
	TotalAmount decimal.Decimal `json:"total_amount"`

	Items             []SaleItem                   `json:"items"`
	AppliedPromotions []promotion.AppliedPromotion `json:"applied_promotions"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OrderAmount là base amount cho promotion computation: subtotal nếu có,
// fallback sang current total amount
func (s *Sale) OrderAmount() decimal.Decimal {
	if s.Subtotal != nil {
		return *s.Subtotal
	}
	return s.TotalAmount
}

// ItemsTotal sums unitPrice × quantity over current line items
func (s *Sale) ItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range s.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// =====================================================
// ENTITY: SaleItem
// =====================================================

// SaleItem is a read-only input to the promotion engine
type SaleItem struct {
	ID        uuid.UUID       `json:"id"`
	SaleID    uuid.UUID       `json:"sale_id"`
	Product   Product         `json:"product"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

// LineTotal calculates unit price × quantity
func (si *SaleItem) LineTotal() decimal.Decimal {
	return si.UnitPrice.Mul(decimal.NewFromInt(int64(si.Quantity)))
}

// Product là partial view của product record (inventory service owns it)
type Product struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Category *string   `json:"category,omitempty"`
}
