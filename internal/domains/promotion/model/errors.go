package model

import "errors"

var (
	ErrPromotionNotFound    = errors.New("promotion not found")
	ErrPromotionInactive    = errors.New("promotion is not active")
	ErrOrderAmountTooLow    = errors.New("order amount is below minimum required")
	ErrInvalidPromotionType = errors.New("invalid promotion type")
	ErrZeroDiscount         = errors.New("promotion grants no discount for this order")
	ErrNothingApplied       = errors.New("sale has no applied promotions")
	ErrPromotionNotApplied  = errors.New("promotion is not applied to this sale")
	ErrPromotionNotEligible = errors.New("promotion is not applicable to this order")
)

type ErrorCode string

const (
	// Promotion validation errors (400)
	ErrCodePromoInvalidCode   ErrorCode = "PROMO_INVALID_CODE"   // 404
	ErrCodePromoNotActive     ErrorCode = "PROMO_NOT_ACTIVE"     // 400
	ErrCodePromoNotApplicable ErrorCode = "PROMO_NOT_APPLICABLE" // 400
	ErrCodePromoZeroDiscount  ErrorCode = "PROMO_ZERO_DISCOUNT"  // 400

	// Ledger errors
	ErrCodePromoNothingApplied ErrorCode = "PROMO_NOTHING_APPLIED" // 400
	ErrCodePromoNotApplied     ErrorCode = "PROMO_NOT_APPLIED"     // 404
	ErrCodePromoAlreadyApplied ErrorCode = "PROMO_ALREADY_APPLIED" // 409

	// Validation errors (400)
	ErrCodeValidationFailed ErrorCode = "VAL_INVALID_INPUT" // 400

	// System errors (500)
	ErrCodeInternalError ErrorCode = "SYS_INTERNAL_ERROR" // 500
)

type AppError struct {
	Code       ErrorCode              `json:"code"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
	HTTPStatus int                    `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

// Predefined errors
var (
	ErrInvalidCouponCode = &AppError{
		Code:       ErrCodePromoInvalidCode,
		Message:    "Coupon code does not exist or has been disabled",
		HTTPStatus: 404,
	}

	ErrPromotionNotActive = &AppError{
		Code:       ErrCodePromoNotActive,
		Message:    "Promotion is not currently active",
		HTTPStatus: 400,
	}

	ErrPromotionNotApplicable = &AppError{
		Code:       ErrCodePromoNotApplicable,
		Message:    "Promotion is not applicable to this order",
		HTTPStatus: 400,
	}
)
