package model

import (
	"errors"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ValidateCouponRequest - Request để validate coupon code với sale context
type ValidateCouponRequest struct {
	Code        string          `json:"code"`
	Items       []SaleItemInput `json:"items"`
	OrderAmount decimal.Decimal `json:"order_amount"`

	// Từ JWT token, không nhận từ request body
	CustomerID     *uuid.UUID `json:"-"`
	CustomerGroups []string   `json:"-"`
}

// SaleItemInput đại diện cho một line item trong request
type SaleItemInput struct {
	ProductID uuid.UUID       `json:"product_id"`
	Category  *string         `json:"category,omitempty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

// Validate validates ValidateCouponRequest
func (r ValidateCouponRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Code,
			validation.Required.Error("coupon code is required"),
			validation.Length(3, 50).Error("coupon code must be 3-50 characters"),
		),
		validation.Field(&r.Items,
			validation.Required.Error("sale items are required"),
			validation.Length(1, 100).Error("sale must have 1-100 items"),
		),
		validation.Field(&r.OrderAmount,
			validation.By(minDecimal(decimal.Zero, "order amount must be >= 0")),
		),
	)
}

// Validate validates SaleItemInput
func (i SaleItemInput) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.ProductID, validation.Required),
		validation.Field(&i.UnitPrice, validation.By(minDecimal(decimal.Zero, "unit price must be >= 0"))),
		validation.Field(&i.Quantity, validation.Min(1), validation.Max(1000)),
	)
}

// minDecimal là ozzo rule cho decimal amounts (ozzo Min không hỗ trợ
// struct types)
func minDecimal(min decimal.Decimal, msg string) validation.RuleFunc {
	return func(value interface{}) error {
		d, ok := value.(decimal.Decimal)
		if !ok {
			return errors.New("must be a decimal amount")
		}
		if d.LessThan(min) {
			return errors.New(msg)
		}
		return nil
	}
}

// NormalizeCode chuyển code về uppercase
func (r *ValidateCouponRequest) NormalizeCode() {
	r.Code = strings.ToUpper(strings.TrimSpace(r.Code))
}

// CalculateOrderAmount tính lại order amount từ items
func (r ValidateCouponRequest) CalculateOrderAmount() decimal.Decimal {
	total := decimal.Zero
	for _, item := range r.Items {
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// PromotionInfo là compact view của promotion cho responses
type PromotionInfo struct {
	ID                uuid.UUID        `json:"id"`
	Name              string           `json:"name"`
	Description       *string          `json:"description,omitempty"`
	Type              string           `json:"type"`
	DiscountValue     decimal.Decimal  `json:"discount_value"`
	MaxDiscountAmount *decimal.Decimal `json:"max_discount_amount,omitempty"`
	MinOrderAmount    *decimal.Decimal `json:"min_order_amount,omitempty"`
	Code              *string          `json:"code,omitempty"`
	AutoApply         bool             `json:"auto_apply"`
	EndsAt            *time.Time       `json:"ends_at,omitempty"`
}

// ToInfo converts Promotion to PromotionInfo
func (p *Promotion) ToInfo() *PromotionInfo {
	return &PromotionInfo{
		ID:                p.ID,
		Name:              p.Name,
		Description:       p.Description,
		Type:              string(p.Type),
		DiscountValue:     p.DiscountValue,
		MaxDiscountAmount: p.MaxDiscountAmount,
		MinOrderAmount:    p.MinOrderAmount,
		Code:              p.Code,
		AutoApply:         p.AutoApply,
		EndsAt:            p.EndsAt,
	}
}

// CouponValidationResult là result của coupon validation
type CouponValidationResult struct {
	IsValid        bool            `json:"is_valid"`
	Promotion      *PromotionInfo  `json:"promotion,omitempty"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	FinalAmount    decimal.Decimal `json:"final_amount"`
}
