package domain

import "context"

// Service composes tier, factor, multiplier, discount and promotion
// data into one itemized quote. Tier and factor lookups propagate
// catalog integrity errors; promotion races never fail a quote.
type Service interface {
	Quote(ctx context.Context, req QuoteRequest) (*PriceBreakdown, error)
}
