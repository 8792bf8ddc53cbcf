package main

import (
	"net/http"

	"quickpay-be/internal/api"
	"quickpay-be/internal/config"
	"quickpay-be/internal/db"
	"quickpay-be/internal/logger"
	"quickpay-be/internal/middleware"
	"quickpay-be/internal/order"
	"quickpay-be/internal/provider"
	"quickpay-be/internal/quickpay"
	"quickpay-be/internal/webhook"

	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()

	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := db.InitDB(cfg)
	defer database.Close()

	gateway := quickpay.NewClient(cfg.QuickPayAPIKey)

	settings := provider.Settings{
		PrivateKey:            cfg.QuickPayPrivateKey,
		MerchantID:            cfg.QuickPayMerchantID,
		AgreementID:           cfg.QuickPayAgreementID,
		ContinueURL:           cfg.ContinueURL,
		CancelURL:             cfg.CancelURL,
		ErrorURL:              cfg.ErrorURL,
		CallbackURL:           cfg.CallbackURL,
		Language:              cfg.Language,
		PaymentMethods:        cfg.PaymentMethods,
		AutoFee:               cfg.AutoFee,
		AutoCapture:           cfg.AutoCapture,
		Framed:                cfg.Framed,
		OrderNumberTemplate:   cfg.OrderNumberTemplate,
		VerifyByRemoteOrderID: cfg.OrderVerification == config.VerifyByRemoteOrderID,
	}
	if err := settings.Validate(); err != nil {
		logger.L().Fatal("invalid QuickPay settings", zap.Error(err))
	}

	var prov provider.Provider
	if cfg.LegacyVariant {
		prov = provider.NewLegacyProvider(gateway, settings)
	} else {
		prov = provider.NewCheckoutProvider(gateway, settings)
	}

	orderRepo := order.NewRepository(database)
	orderSvc := order.NewService(orderRepo, prov, cfg.QuickPayPrivateKey)

	handler := newRouter(orderSvc, cfg.ServiceAuthSecret)

	logger.L().Info("payment service listening", zap.String("port", cfg.AppPort))
	if err := http.ListenAndServe(":"+cfg.AppPort, handler); err != nil {
		logger.L().Fatal("server stopped", zap.Error(err))
	}
}

// newRouter wires the HTTP surface. Callbacks authenticate themselves via
// the body checksum, so they bypass service auth; everything else is
// store-to-store traffic behind a bearer token.
func newRouter(orderSvc order.Service, authSecret string) http.Handler {
	apiMux := http.NewServeMux()
	api.NewHandler(orderSvc).Routes(apiMux)

	webhookMux := http.NewServeMux()
	webhookMux.HandleFunc("POST /webhooks/quickpay", webhook.NewHandler(orderSvc).Callback)

	serviceAuth := middleware.ServiceAuth(authSecret)

	root := http.NewServeMux()
	root.Handle("/webhooks/", webhookMux)
	root.Handle("/", serviceAuth(apiMux))

	return logger.RequestIDMiddleware(
		logger.LoggingMiddleware(
			middleware.RateLimitMiddleware(root),
		),
	)
}
