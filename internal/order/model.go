package order

import (
	"time"

	"quickpay-be/internal/provider"
)

// Order is one payable order as the store sees it. Properties is the
// string-keyed bag the payment provider caches its session state in.
type Order struct {
	ID          int64
	OrderNumber string
	Reference   string
	Currency    string
	Amount      float64
	Status      string

	// TransactionID and AmountAuthorized reflect the last settled gateway
	// outcome applied to this order.
	TransactionID    string
	AmountAuthorized float64

	Properties map[string]string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Snapshot captures the order state the provider operates on. The property
// bag is copied so concurrent writers can't mutate the snapshot under the
// provider's hash comparison.
func (o *Order) Snapshot() provider.OrderSnapshot {
	props := make(map[string]string, len(o.Properties))
	for k, v := range o.Properties {
		props[k] = v
	}
	return provider.OrderSnapshot{
		OrderNumber: o.OrderNumber,
		Reference:   o.Reference,
		Currency:    o.Currency,
		Amount:      o.Amount,
		Properties:  props,
	}
}

// Property returns the named property or "" when absent.
func (o *Order) Property(key string) string {
	return o.Properties[key]
}
