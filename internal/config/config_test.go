package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	t.Run("Success loading from env", func(t *testing.T) {
		// t.Setenv sets the environment variable for the duration of the test
		// and automatically restores it afterwards.
		t.Setenv("DB_HOST", "localhost")
		t.Setenv("DB_USER", "testuser")
		t.Setenv("DB_PASSWORD", "testpass")
		t.Setenv("DB_NAME", "testdb")
		t.Setenv("DB_PORT", "5432")
		t.Setenv("APP_PORT", "8080")
		t.Setenv("APP_ENV", "test")
		t.Setenv("QUICKPAY_API_KEY", "qp_api_key")
		t.Setenv("QUICKPAY_PRIVATE_KEY", "qp_private_key")
		t.Setenv("QUICKPAY_MERCHANT_ID", "12345")
		t.Setenv("QUICKPAY_AGREEMENT_ID", "67890")
		t.Setenv("CONTINUE_URL", "https://shop.example/continue")
		t.Setenv("CANCEL_URL", "https://shop.example/cancel")
		t.Setenv("ERROR_URL", "https://shop.example/error")
		t.Setenv("CALLBACK_URL", "https://shop.example/webhook/quickpay")
		t.Setenv("QUICKPAY_LANGUAGE", "da")
		t.Setenv("QUICKPAY_PAYMENT_METHODS", "creditcard, mobilepay")
		t.Setenv("QUICKPAY_AUTO_CAPTURE", "true")
		t.Setenv("ORDER_NUMBER_TEMPLATE", "INV-{0}")

		cfg := LoadConfig()

		assert.NotNil(t, cfg)
		assert.Equal(t, "localhost", cfg.DBHost)
		assert.Equal(t, "testuser", cfg.DBUser)
		assert.Equal(t, "testpass", cfg.DBPassword)
		assert.Equal(t, "testdb", cfg.DBName)
		assert.Equal(t, "5432", cfg.DBPort)
		assert.Equal(t, "8080", cfg.AppPort)
		assert.Equal(t, "qp_api_key", cfg.QuickPayAPIKey)
		assert.Equal(t, "qp_private_key", cfg.QuickPayPrivateKey)
		assert.Equal(t, "https://shop.example/webhook/quickpay", cfg.CallbackURL)
		assert.Equal(t, "da", cfg.Language)
		assert.True(t, cfg.AutoCapture)
		assert.False(t, cfg.AutoFee)
		assert.Equal(t, "INV-{0}", cfg.OrderNumberTemplate)
		assert.Equal(t, VerifyByOrderReference, cfg.OrderVerification)
	})

	t.Run("Explicit verification strategy", func(t *testing.T) {
		t.Setenv("DB_HOST", "localhost")
		t.Setenv("ORDER_VERIFICATION", "remote_order_id")

		cfg := LoadConfig()
		assert.Equal(t, VerifyByRemoteOrderID, cfg.OrderVerification)
	})
}
