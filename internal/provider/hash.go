package provider

import "encoding/base64"

// PaymentHash fingerprints a payment session by binding the remote payment
// id to the order identity and amount it was created for. The four fields
// are concatenated without a delimiter and base64-encoded; the combination
// space of legitimate values for one merchant account is small enough that
// this is collision-safe for its purpose. It is a staleness check, not a
// security boundary — forged writes are rejected by gateway authentication.
func PaymentHash(paymentID, orderNumber, currency, minorAmount string) string {
	return base64.StdEncoding.EncodeToString([]byte(paymentID + orderNumber + currency + minorAmount))
}

// VerifyPaymentHash reports whether candidate matches the hash recomputed
// from the order's current values. A mismatch means the cached payment link
// no longer belongs to this order state.
func VerifyPaymentHash(candidate, paymentID, orderNumber, currency, minorAmount string) bool {
	return candidate == PaymentHash(paymentID, orderNumber, currency, minorAmount)
}
