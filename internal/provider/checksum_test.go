package provider

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func hexHMAC(body []byte, key string) string {
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestChecksum(t *testing.T) {
	body := []byte(`{"id": 84737291, "order_id": "ORD-12345"}`)

	t.Run("LowercaseHex", func(t *testing.T) {
		sum := Checksum(body, "private-key")
		assert.Len(t, sum, 64)
		assert.Equal(t, hexHMAC(body, "private-key"), sum)
	})

	t.Run("KeySensitive", func(t *testing.T) {
		assert.NotEqual(t, Checksum(body, "key-a"), Checksum(body, "key-b"))
	})
}

func TestValidateChecksum(t *testing.T) {
	body := []byte(`{"id": 84737291, "order_id": "ORD-12345"}`)
	key := "private-key"

	t.Run("Valid", func(t *testing.T) {
		assert.True(t, ValidateChecksum(body, hexHMAC(body, key), key))
	})

	t.Run("TamperedBody", func(t *testing.T) {
		tampered := []byte(`{"id": 84737291, "order_id": "ORD-99999"}`)
		assert.False(t, ValidateChecksum(body, hexHMAC(tampered, key), key))
	})

	t.Run("MissingHeader", func(t *testing.T) {
		assert.False(t, ValidateChecksum(body, "", key))
	})

	t.Run("WrongKey", func(t *testing.T) {
		assert.False(t, ValidateChecksum(body, hexHMAC(body, "other-key"), key))
	})

	t.Run("ExactBytesMatter", func(t *testing.T) {
		// Re-serialized JSON (different whitespace) must not validate.
		reserialized := []byte(`{"id":84737291,"order_id":"ORD-12345"}`)
		assert.False(t, ValidateChecksum(reserialized, hexHMAC(body, key), key))
	})
}
