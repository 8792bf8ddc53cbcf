package quickpay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"quickpay-be/internal/logger"

	"go.uber.org/zap"
)

const (
	quickPayBaseURL = "https://api.quickpay.net"
	apiVersion      = "v10"
)

// Gateway is the outbound surface of the QuickPay REST API consumed by the
// payment provider.
type Gateway interface {
	CreatePayment(ctx context.Context, req PaymentRequest) (*Payment, error)
	CreatePaymentLink(ctx context.Context, paymentID string, req PaymentLinkRequest) (*PaymentLinkURL, error)
	GetPayment(ctx context.Context, paymentID string) (*Payment, error)
	CancelPayment(ctx context.Context, paymentID string) (*Payment, error)
	CapturePayment(ctx context.Context, paymentID string, amount int64) (*Payment, error)
	RefundPayment(ctx context.Context, paymentID string, amount int64) (*Payment, error)
}

type client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client

	// When set, cancel/capture/refund carry ?synchronized so the gateway
	// completes the operation before responding.
	synchronized bool
}

// ----------------- Constructor -----------------

func NewClient(apiKey string) Gateway {
	if apiKey == "" {
		logger.L().Warn("QuickPay API key is empty")
	}

	return &client{
		baseURL: quickPayBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		synchronized: true,
	}
}

// ----------------- Payments -----------------

func (c *client) CreatePayment(ctx context.Context, req PaymentRequest) (*Payment, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("order_id", req.OrderID),
		zap.String("currency", req.Currency),
	)
	log.Info("Creating QuickPay payment")

	var payment Payment
	if err := c.do(ctx, http.MethodPost, "/payments", req, &payment); err != nil {
		log.Error("QuickPay create payment failed", zap.Error(err))
		return nil, err
	}

	log.Info("QuickPay payment created", zap.String("payment_id", payment.TransactionID()))
	return &payment, nil
}

func (c *client) CreatePaymentLink(ctx context.Context, paymentID string, req PaymentLinkRequest) (*PaymentLinkURL, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("payment_id", paymentID),
		zap.Int64("amount", req.Amount),
	)
	log.Info("Creating QuickPay payment link")

	var link PaymentLinkURL
	path := fmt.Sprintf("/payments/%s/link", paymentID)
	if err := c.do(ctx, http.MethodPut, path, req, &link); err != nil {
		log.Error("QuickPay create payment link failed", zap.Error(err))
		return nil, err
	}

	return &link, nil
}

func (c *client) GetPayment(ctx context.Context, paymentID string) (*Payment, error) {
	var payment Payment
	path := fmt.Sprintf("/payments/%s", paymentID)
	if err := c.do(ctx, http.MethodGet, path, nil, &payment); err != nil {
		logger.FromCtx(ctx).Error("QuickPay get payment failed",
			zap.String("payment_id", paymentID),
			zap.Error(err),
		)
		return nil, err
	}
	return &payment, nil
}

// ----------------- Operations -----------------

func (c *client) CancelPayment(ctx context.Context, paymentID string) (*Payment, error) {
	return c.operate(ctx, paymentID, "cancel", nil)
}

func (c *client) CapturePayment(ctx context.Context, paymentID string, amount int64) (*Payment, error) {
	return c.operate(ctx, paymentID, "capture", &amountRequest{Amount: amount})
}

func (c *client) RefundPayment(ctx context.Context, paymentID string, amount int64) (*Payment, error) {
	return c.operate(ctx, paymentID, "refund", &amountRequest{Amount: amount})
}

func (c *client) operate(ctx context.Context, paymentID, op string, body *amountRequest) (*Payment, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("payment_id", paymentID),
		zap.String("operation", op),
	)

	path := fmt.Sprintf("/payments/%s/%s", paymentID, op)
	if c.synchronized {
		path += "?synchronized"
	}

	var payment Payment
	var reqBody interface{}
	if body != nil {
		reqBody = body
	}
	if err := c.do(ctx, http.MethodPost, path, reqBody, &payment); err != nil {
		log.Error("QuickPay operation failed", zap.Error(err))
		return nil, err
	}

	log.Info("QuickPay operation accepted", zap.String("state", payment.State))
	return &payment, nil
}

// ----------------- Transport -----------------

func (c *client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}

	// QuickPay basic auth uses an empty username and the API key as password.
	req.SetBasicAuth("", c.apiKey)
	req.Header.Set("Accept-Version", apiVersion)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read quickpay response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("quickpay error (%d): %s", resp.StatusCode, string(respBody))
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed decoding quickpay response: %w", err)
		}
	}

	return nil
}
