package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"quickpay-be/internal/order"
	"quickpay-be/internal/provider"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type stubOrderService struct {
	mock.Mock
}

func (s *stubOrderService) RegisterOrder(ctx context.Context, orderNumber, currency string, amount float64) (*order.Order, error) {
	args := s.Called(ctx, orderNumber, currency, amount)
	if o, ok := args.Get(0).(*order.Order); ok {
		return o, args.Error(1)
	}
	return nil, args.Error(1)
}

func (s *stubOrderService) GeneratePaymentForm(ctx context.Context, orderNumber string) (*provider.FormResult, error) {
	args := s.Called(ctx, orderNumber)
	if f, ok := args.Get(0).(*provider.FormResult); ok {
		return f, args.Error(1)
	}
	return nil, args.Error(1)
}

func (s *stubOrderService) ProcessCallback(ctx context.Context, body []byte, checksum string) error {
	args := s.Called(ctx, body, checksum)
	return args.Error(0)
}

func (s *stubOrderService) FetchPaymentStatus(ctx context.Context, orderNumber string) (*provider.TransactionResult, error) {
	args := s.Called(ctx, orderNumber)
	if r, ok := args.Get(0).(*provider.TransactionResult); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (s *stubOrderService) CancelPayment(ctx context.Context, orderNumber string) (*provider.TransactionResult, error) {
	args := s.Called(ctx, orderNumber)
	if r, ok := args.Get(0).(*provider.TransactionResult); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (s *stubOrderService) CapturePayment(ctx context.Context, orderNumber string) (*provider.TransactionResult, error) {
	args := s.Called(ctx, orderNumber)
	if r, ok := args.Get(0).(*provider.TransactionResult); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (s *stubOrderService) RefundPayment(ctx context.Context, orderNumber string) (*provider.TransactionResult, error) {
	args := s.Called(ctx, orderNumber)
	if r, ok := args.Get(0).(*provider.TransactionResult); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func TestRouter(t *testing.T) {
	const secret = "router-secret"

	t.Run("WebhookBypassesServiceAuth", func(t *testing.T) {
		svc := new(stubOrderService)
		svc.On("ProcessCallback", mock.Anything, mock.Anything, mock.Anything).Return(nil)

		router := newRouter(svc, secret)

		req := httptest.NewRequest(http.MethodPost, "/webhooks/quickpay", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("OrdersRequireServiceToken", func(t *testing.T) {
		svc := new(stubOrderService)
		router := newRouter(svc, secret)

		req := httptest.NewRequest(http.MethodGet, "/orders/ORD-1/payment-status", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		svc.AssertNotCalled(t, "FetchPaymentStatus", mock.Anything, mock.Anything)
	})

	t.Run("OrdersWithValidToken", func(t *testing.T) {
		svc := new(stubOrderService)
		svc.On("FetchPaymentStatus", mock.Anything, "ORD-1").Return(&provider.TransactionResult{
			TransactionID: "84737291",
			Status:        provider.StatusAuthorized,
		}, nil)

		router := newRouter(svc, secret)

		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": "shop-backend",
			"exp": time.Now().Add(time.Hour).Unix(),
		})
		tokenString, err := token.SignedString([]byte(secret))
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/orders/ORD-1/payment-status", nil)
		req.Header.Set("Authorization", "Bearer "+tokenString)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("RequestIDHeaderSet", func(t *testing.T) {
		svc := new(stubOrderService)
		svc.On("ProcessCallback", mock.Anything, mock.Anything, mock.Anything).Return(nil)

		router := newRouter(svc, secret)

		req := httptest.NewRequest(http.MethodPost, "/webhooks/quickpay", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	})
}
