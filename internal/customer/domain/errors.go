package domain

import "errors"

var (
	ErrInvalidUserID = errors.New("invalid_user_id")
	ErrNotFound      = errors.New("customer_not_found")
)
