package provider

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// ChecksumHeader carries the callback signature on inbound requests.
const ChecksumHeader = "QuickPay-Checksum-Sha256"

// Checksum computes the lowercase hex HMAC-SHA256 of the raw callback body
// keyed with the agreement's private key. The bytes must be the body
// exactly as received; any re-serialization invalidates the signature.
func Checksum(body []byte, privateKey string) string {
	mac := hmac.New(sha256.New, []byte(privateKey))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// ValidateChecksum verifies an inbound callback signature. A missing or
// empty header fails validation; it never panics.
func ValidateChecksum(body []byte, headerChecksum, privateKey string) bool {
	if headerChecksum == "" {
		return false
	}
	return headerChecksum == Checksum(body, privateKey)
}
