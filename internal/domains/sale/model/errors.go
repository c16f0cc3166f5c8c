package model

import "errors"

var (
	ErrSaleNotFound   = errors.New("sale not found")
	ErrSaleNotMutable = errors.New("sale can no longer be modified")
	ErrEmptySale      = errors.New("sale has no line items")
)
