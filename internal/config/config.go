package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// OrderVerification selects how a callback payload is matched against the
// local order. Which strategy works for a given QuickPay agreement depends
// on whether custom variables were sent when the payment was created.
type OrderVerification string

const (
	// VerifyByOrderReference matches the orderReference custom variable
	// returned in the callback payload.
	VerifyByOrderReference OrderVerification = "order_reference"
	// VerifyByRemoteOrderID matches the payload order_id against the
	// quickPayOrderId property cached on the order.
	VerifyByRemoteOrderID OrderVerification = "remote_order_id"
)

type Config struct {
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	AppPort    string
	AppEnv     string

	// QuickPay agreement credentials.
	QuickPayAPIKey      string
	QuickPayPrivateKey  string
	QuickPayMerchantID  string
	QuickPayAgreementID string

	// Redirect / callback endpoints handed to the payment link.
	ContinueURL string
	CancelURL   string
	ErrorURL    string
	CallbackURL string

	// Payment window options.
	Language       string
	PaymentMethods string
	AutoFee        bool
	AutoCapture    bool
	Framed         bool

	// Template the host system decorates order numbers with, e.g. "INV-{0}".
	OrderNumberTemplate string

	OrderVerification OrderVerification

	// LegacyVariant selects the pre-variables gateway integration for old
	// agreements.
	LegacyVariant bool

	// ServiceAuthSecret signs the service tokens accepted on /orders routes.
	ServiceAuthSecret string
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBPort:     os.Getenv("DB_PORT"),
		AppPort:    os.Getenv("APP_PORT"),
		AppEnv:     os.Getenv("APP_ENV"),

		QuickPayAPIKey:      os.Getenv("QUICKPAY_API_KEY"),
		QuickPayPrivateKey:  os.Getenv("QUICKPAY_PRIVATE_KEY"),
		QuickPayMerchantID:  os.Getenv("QUICKPAY_MERCHANT_ID"),
		QuickPayAgreementID: os.Getenv("QUICKPAY_AGREEMENT_ID"),

		ContinueURL: os.Getenv("CONTINUE_URL"),
		CancelURL:   os.Getenv("CANCEL_URL"),
		ErrorURL:    os.Getenv("ERROR_URL"),
		CallbackURL: os.Getenv("CALLBACK_URL"),

		Language:       os.Getenv("QUICKPAY_LANGUAGE"),
		PaymentMethods: os.Getenv("QUICKPAY_PAYMENT_METHODS"),
		AutoFee:        envBool("QUICKPAY_AUTO_FEE"),
		AutoCapture:    envBool("QUICKPAY_AUTO_CAPTURE"),
		Framed:         envBool("QUICKPAY_FRAMED"),

		OrderNumberTemplate: os.Getenv("ORDER_NUMBER_TEMPLATE"),

		OrderVerification: OrderVerification(os.Getenv("ORDER_VERIFICATION")),

		LegacyVariant: envBool("QUICKPAY_LEGACY_VARIANT"),

		ServiceAuthSecret: os.Getenv("SERVICE_AUTH_SECRET"),
	}

	if cfg.OrderVerification == "" {
		cfg.OrderVerification = VerifyByOrderReference
	}

	if cfg.DBHost == "" {
		log.Fatal("Environment variables not loaded properly")
	}

	return cfg
}

func envBool(key string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
