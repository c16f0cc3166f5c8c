package model

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ApplyCouponRequest - Request để apply coupon code vào sale
type ApplyCouponRequest struct {
	Code string `json:"code"`
}

// Validate validates ApplyCouponRequest
func (r ApplyCouponRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Code,
			validation.Required.Error("coupon code is required"),
			validation.Length(3, 50).Error("coupon code must be 3-50 characters"),
		),
	)
}

// NormalizeCode chuyển code về uppercase
func (r *ApplyCouponRequest) NormalizeCode() {
	r.Code = strings.ToUpper(strings.TrimSpace(r.Code))
}
