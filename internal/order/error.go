package order

import "errors"

var (
	ErrOrderNotFound = errors.New("order not found")

	// ErrStaleSnapshot is returned by SetProperties when the payment hash
	// changed between the snapshot read and the write. The caller should
	// reload the order and retry.
	ErrStaleSnapshot = errors.New("order properties changed since snapshot")
)
