package webhook

import (
	"io"
	"net/http"

	"quickpay-be/internal/logger"
	"quickpay-be/internal/order"
	"quickpay-be/internal/provider"

	"go.uber.org/zap"
)

// Handler receives QuickPay callback deliveries. Authentication happens on
// the raw body downstream, so the body must reach the service byte-exact.
type Handler struct {
	OrderSvc order.Service
}

func NewHandler(orderSvc order.Service) *Handler {
	return &Handler{OrderSvc: orderSvc}
}

func (h *Handler) Callback(w http.ResponseWriter, r *http.Request) {
	log := logger.FromCtx(r.Context())

	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	checksum := r.Header.Get(provider.ChecksumHeader)

	// A non-nil error means the event was not durably recorded; a non-2xx
	// response makes the gateway redeliver. Rejected or duplicate callbacks
	// are acknowledged so the gateway stops retrying them.
	if err := h.OrderSvc.ProcessCallback(r.Context(), body, checksum); err != nil {
		log.Error("callback processing failed", zap.Error(err))
		http.Error(w, "failed to process callback", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
