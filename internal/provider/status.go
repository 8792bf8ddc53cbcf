package provider

import "quickpay-be/internal/quickpay"

// Status is the canonical payment-status vocabulary the host commerce
// system understands, independent of gateway wording.
type Status string

const (
	StatusInitialized           Status = "INITIALIZED"
	StatusAuthorized            Status = "AUTHORIZED"
	StatusCaptured              Status = "CAPTURED"
	StatusRefunded              Status = "REFUNDED"
	StatusCancelled             Status = "CANCELLED"
	StatusError                 Status = "ERROR"
	StatusPendingExternalSystem Status = "PENDING_EXTERNAL_SYSTEM"
)

// StatusFromOperation maps one lifecycle operation onto the canonical
// vocabulary. Unknown operation types fall back to Initialized.
func StatusFromOperation(op *quickpay.Operation) Status {
	if op == nil {
		return StatusInitialized
	}

	switch op.Type {
	case "authorize":
		return StatusAuthorized
	case "capture":
		return StatusCaptured
	case "refund":
		return StatusRefunded
	case "cancel":
		return StatusCancelled
	}

	return StatusInitialized
}

// StatusFromState maps the payment's aggregate state field. This is the
// legacy policy; the operation-based mapping is preferred because the
// aggregate state lags behind the operation log.
func StatusFromState(state string) Status {
	switch state {
	case "new":
		return StatusAuthorized
	case "processed":
		return StatusCaptured
	case "rejected":
		return StatusError
	case "pending":
		return StatusPendingExternalSystem
	}

	return StatusInitialized
}

// LastCompletedOperation returns the last operation in call order that
// settled successfully on the gateway side, or nil when none has. A nil
// result means the action is inconclusive, not failed — the caller should
// re-poll later.
func LastCompletedOperation(ops []quickpay.Operation) *quickpay.Operation {
	for i := len(ops) - 1; i >= 0; i-- {
		if ops[i].Completed() {
			return &ops[i]
		}
	}
	return nil
}
