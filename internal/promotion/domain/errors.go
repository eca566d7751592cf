package domain

import "errors"

var (
	ErrInvalidCode           = errors.New("invalid_code")
	ErrInvalidDiscountType   = errors.New("invalid_discount_type")
	ErrInvalidDiscountValue  = errors.New("invalid_discount_value")
	ErrInvalidValidityWindow = errors.New("invalid_validity_window")
	ErrInvalidMaxUses        = errors.New("invalid_max_uses")
	ErrInvalidScope          = errors.New("invalid_scope")
	ErrInvalidID             = errors.New("invalid_id")
	ErrCodeExists            = errors.New("code_exists")
	ErrNotFound              = errors.New("not_found")
)
