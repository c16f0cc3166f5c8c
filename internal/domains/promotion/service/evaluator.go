package service

import (
	"time"

	"github.com/shopspring/decimal"

	customer "sales-backend/internal/domains/customer/model"
	"sales-backend/internal/domains/promotion/model"
	sale "sales-backend/internal/domains/sale/model"
	"sales-backend/pkg/logger"
)

// EligibilityEvaluator quyết định một promotion có áp dụng được cho một
// sale context (customer + line items + order amount) hay không.
//
// Pure computation, không side effects, không I/O.
type EligibilityEvaluator struct{}

func NewEligibilityEvaluator() *EligibilityEvaluator {
	return &EligibilityEvaluator{}
}

// IsEligible chạy tất cả eligibility checks, short-circuit tại failure
// đầu tiên:
//
//  1. Promotion đang active: enabled + now trong [starts_at, ends_at)
//  2. Customer scope chấp nhận customer này
//  3. Minimum order amount (nếu set): orderAmount >= minimum
//  4. Product/category scope: áp dụng cho tất cả items, hoặc ít nhất
//     một line item match theo product id hoặc category name
//
// Order amount do caller cung cấp, không tính lại ở đây.
func (e *EligibilityEvaluator) IsEligible(
	promo *model.Promotion,
	cust *customer.Customer,
	items []sale.SaleItem,
	orderAmount decimal.Decimal,
) bool {
	// Check 1: Activity window
	if !promo.IsActiveAt(time.Now()) {
		return false
	}

	// Check 2: Customer scope
	if !promo.IsApplicableToCustomer(cust) {
		return false
	}

	// Check 3: Minimum order amount
	if promo.MinOrderAmount != nil && orderAmount.LessThan(*promo.MinOrderAmount) {
		return false
	}

	// Check 4: Product/category scope
	scope := promo.Scope()
	if scope.AppliesToAll() {
		return true
	}
	for _, item := range items {
		if scope.Matches(item.Product.ID, item.Product.Category) {
			return true
		}
	}

	return false
}

// Validate là safe wrapper quanh IsEligible: internal evaluation faults
// (malformed scope data, nil promotion...) được downgrade thành "not
// eligible" và log lại thay vì propagate, để một promotion hỏng không
// làm fail cả batch scan.
func (e *EligibilityEvaluator) Validate(
	promo *model.Promotion,
	cust *customer.Customer,
	items []sale.SaleItem,
	orderAmount decimal.Decimal,
) (eligible bool) {
	defer func() {
		if r := recover(); r != nil {
			eligible = false
			logger.Warn("promotion eligibility evaluation fault", map[string]interface{}{
				"panic": r,
			})
		}
	}()

	return e.IsEligible(promo, cust, items, orderAmount)
}

// FindEligible filters catalog qua Validate, giữ nguyên input ordering.
// Catalog được giả định không chứa duplicate identities.
func (e *EligibilityEvaluator) FindEligible(
	catalog []*model.Promotion,
	cust *customer.Customer,
	items []sale.SaleItem,
	orderAmount decimal.Decimal,
) []*model.Promotion {
	var eligible []*model.Promotion
	for _, promo := range catalog {
		if e.Validate(promo, cust, items, orderAmount) {
			eligible = append(eligible, promo)
		}
	}
	return eligible
}

// FindAutoApplicable filters thêm theo auto-apply flag
func (e *EligibilityEvaluator) FindAutoApplicable(
	catalog []*model.Promotion,
	cust *customer.Customer,
	items []sale.SaleItem,
	orderAmount decimal.Decimal,
) []*model.Promotion {
	var applicable []*model.Promotion
	for _, promo := range e.FindEligible(catalog, cust, items, orderAmount) {
		if promo.AutoApply {
			applicable = append(applicable, promo)
		}
	}
	return applicable
}
