package provider

import "errors"

var (
	ErrInvalidCurrency = errors.New("currency must be a valid ISO 4217 currency code")
	ErrInvalidTemplate = errors.New("order number template does not match order number")
	ErrMissingSetting  = errors.New("missing required provider setting")
)
