package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"quickpay-be/internal/logger"
	"quickpay-be/internal/metrics"
	"quickpay-be/internal/order"
	"quickpay-be/internal/provider"

	"go.uber.org/zap"
)

// Handler exposes the store-facing payment operations. Routes under
// /orders act on one order by its business order number; /internal/stats
// reports process counters.
type Handler struct {
	OrderSvc order.Service
}

func NewHandler(orderSvc order.Service) *Handler {
	return &Handler{OrderSvc: orderSvc}
}

func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("POST /orders", h.CreateOrder)
	mux.HandleFunc("POST /orders/{orderNumber}/payment-form", h.PaymentForm)
	mux.HandleFunc("GET /orders/{orderNumber}/payment-status", h.PaymentStatus)
	mux.HandleFunc("POST /orders/{orderNumber}/cancel", h.Cancel)
	mux.HandleFunc("POST /orders/{orderNumber}/capture", h.Capture)
	mux.HandleFunc("POST /orders/{orderNumber}/refund", h.Refund)
	mux.HandleFunc("GET /internal/stats", h.Stats)
}

type createOrderRequest struct {
	OrderNumber string  `json:"order_number"`
	Currency    string  `json:"currency"`
	Amount      float64 `json:"amount"`
}

type createOrderResponse struct {
	ID          int64   `json:"id"`
	OrderNumber string  `json:"order_number"`
	Reference   string  `json:"reference"`
	Currency    string  `json:"currency"`
	Amount      float64 `json:"amount"`
	Status      string  `json:"status"`
}

type formResponse struct {
	URL      string            `json:"url"`
	Method   string            `json:"method"`
	MetaData map[string]string `json:"metadata"`
}

type transactionResponse struct {
	Applied          bool    `json:"applied"`
	TransactionID    string  `json:"transaction_id,omitempty"`
	Status           string  `json:"status,omitempty"`
	AmountAuthorized float64 `json:"amount_authorized,omitempty"`
}

func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}
	if req.Currency == "" || req.Amount <= 0 {
		http.Error(w, "currency and a positive amount are required", http.StatusBadRequest)
		return
	}

	o, err := h.OrderSvc.RegisterOrder(r.Context(), req.OrderNumber, req.Currency, req.Amount)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, createOrderResponse{
		ID:          o.ID,
		OrderNumber: o.OrderNumber,
		Reference:   o.Reference,
		Currency:    o.Currency,
		Amount:      o.Amount,
		Status:      o.Status,
	})
}

func (h *Handler) PaymentForm(w http.ResponseWriter, r *http.Request) {
	orderNumber := r.PathValue("orderNumber")

	form, err := h.OrderSvc.GeneratePaymentForm(r.Context(), orderNumber)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, formResponse{
		URL:      form.URL,
		Method:   form.Method,
		MetaData: form.MetaData,
	})
}

func (h *Handler) PaymentStatus(w http.ResponseWriter, r *http.Request) {
	h.remoteAction(w, r, h.OrderSvc.FetchPaymentStatus)
}

func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.remoteAction(w, r, h.OrderSvc.CancelPayment)
}

func (h *Handler) Capture(w http.ResponseWriter, r *http.Request) {
	h.remoteAction(w, r, h.OrderSvc.CapturePayment)
}

func (h *Handler) Refund(w http.ResponseWriter, r *http.Request) {
	h.remoteAction(w, r, h.OrderSvc.RefundPayment)
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, metrics.Snapshot())
}

type serviceAction func(ctx context.Context, orderNumber string) (*provider.TransactionResult, error)

func (h *Handler) remoteAction(w http.ResponseWriter, r *http.Request, action serviceAction) {
	orderNumber := r.PathValue("orderNumber")

	result, err := action(r.Context(), orderNumber)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	// A nil result means the gateway gave no settled outcome; the order is
	// untouched and the caller may retry.
	if result == nil {
		writeJSON(w, http.StatusAccepted, transactionResponse{Applied: false})
		return
	}

	writeJSON(w, http.StatusOK, transactionResponse{
		Applied:          true,
		TransactionID:    result.TransactionID,
		Status:           string(result.Status),
		AmountAuthorized: result.AmountAuthorized,
	})
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromCtx(r.Context())

	switch {
	case errors.Is(err, order.ErrOrderNotFound):
		http.Error(w, "order not found", http.StatusNotFound)
	case errors.Is(err, provider.ErrInvalidCurrency),
		errors.Is(err, provider.ErrInvalidTemplate):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, order.ErrStaleSnapshot):
		http.Error(w, "concurrent payment update, retry", http.StatusConflict)
	default:
		log.Error("request failed", zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
