package domain

import "errors"

var (
	// ErrInvalidRentalWindow rejects windows where the end does not
	// come after the start.
	ErrInvalidRentalWindow = errors.New("invalid_rental_window")

	ErrInvalidVariant = errors.New("invalid_variant_id")
)
