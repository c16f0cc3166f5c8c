package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	customer "sales-backend/internal/domains/customer/model"
)

// PromotionType represents valid discount types
type PromotionType string

const (
	PromotionTypePercentage   PromotionType = "percentage"
	PromotionTypeFixedAmount  PromotionType = "fixed_amount"
	PromotionTypeFreeShipping PromotionType = "free_shipping"
	PromotionTypeBuyXGetY     PromotionType = "buy_x_get_y"
)

func (pt PromotionType) IsValid() bool {
	switch pt {
	case PromotionTypePercentage, PromotionTypeFixedAmount,
		PromotionTypeFreeShipping, PromotionTypeBuyXGetY:
		return true
	}
	return false
}

func (pt PromotionType) String() string {
	return string(pt)
}

// Promotion represents a reusable, time-bounded discount rule.
//
// Read-only from the engine's perspective except CurrentUses, which the
// application ledger mutates in lockstep with apply/remove.
type Promotion struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description,omitempty" db:"description"`

	// Discount configuration
	Type              PromotionType    `json:"type" db:"type"`
	DiscountValue     decimal.Decimal  `json:"discount_value" db:"discount_value"`
	MaxDiscountAmount *decimal.Decimal `json:"max_discount_amount,omitempty" db:"max_discount_amount"`

	// Conditions
	MinOrderAmount       *decimal.Decimal `json:"min_order_amount,omitempty" db:"min_order_amount"`
	ApplicableProductIDs []uuid.UUID      `json:"applicable_product_ids,omitempty" db:"applicable_product_ids"`
	ApplicableCategories []string         `json:"applicable_categories,omitempty" db:"applicable_categories"`
	CustomerGroups       []string         `json:"customer_groups,omitempty" db:"customer_groups"`

	// Selection
	AutoApply bool    `json:"auto_apply" db:"auto_apply"`
	Code      *string `json:"code,omitempty" db:"code"`

	// Validity period (nil bound = open-ended)
	StartsAt *time.Time `json:"starts_at,omitempty" db:"starts_at"`
	EndsAt   *time.Time `json:"ends_at,omitempty" db:"ends_at"`

	IsEnabled   bool `json:"is_enabled" db:"is_enabled"`
	CurrentUses int  `json:"current_uses" db:"current_uses"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// IsActiveAt checks enabled flag + activity window [starts_at, ends_at)
func (p *Promotion) IsActiveAt(now time.Time) bool {
	if !p.IsEnabled {
		return false
	}
	if p.StartsAt != nil && now.Before(*p.StartsAt) {
		return false
	}
	if p.EndsAt != nil && !now.Before(*p.EndsAt) {
		return false
	}
	return true
}

// IsActiveNow checks if promotion is currently active
func (p *Promotion) IsActiveNow() bool {
	return p.IsActiveAt(time.Now())
}

// IsApplicableToCustomer checks the promotion's customer scope.
//
// Empty CustomerGroups means every customer qualifies. A nil customer
// (guest checkout) only qualifies for unscoped promotions.
func (p *Promotion) IsApplicableToCustomer(c *customer.Customer) bool {
	if len(p.CustomerGroups) == 0 {
		return true
	}
	if c == nil {
		return false
	}
	for _, g := range p.CustomerGroups {
		if c.InGroup(g) {
			return true
		}
	}
	return false
}

// Scope materializes the applicable-products/categories sets with O(1)
// membership tests. Empty products AND empty categories means the
// promotion applies to every line item.
type Scope struct {
	productIDs map[uuid.UUID]struct{}
	categories map[string]struct{}
}

func (p *Promotion) Scope() Scope {
	s := Scope{
		productIDs: make(map[uuid.UUID]struct{}, len(p.ApplicableProductIDs)),
		categories: make(map[string]struct{}, len(p.ApplicableCategories)),
	}
	for _, id := range p.ApplicableProductIDs {
		s.productIDs[id] = struct{}{}
	}
	for _, name := range p.ApplicableCategories {
		s.categories[name] = struct{}{}
	}
	return s
}

// AppliesToAll reports whether the promotion covers every line item
func (s Scope) AppliesToAll() bool {
	return len(s.productIDs) == 0 && len(s.categories) == 0
}

// Matches checks one line item against the scope by product id or
// product category name
func (s Scope) Matches(productID uuid.UUID, category *string) bool {
	if s.AppliesToAll() {
		return true
	}
	if _, ok := s.productIDs[productID]; ok {
		return true
	}
	if category != nil {
		if _, ok := s.categories[*category]; ok {
			return true
		}
	}
	return false
}
