package order

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"quickpay-be/internal/logger"
	"quickpay-be/internal/provider"
	"quickpay-be/internal/utils"

	"go.uber.org/zap"
)

// Service coordinates payment sessions: it loads order snapshots, runs the
// gateway provider against them and persists whatever the provider hands
// back. All mutation of the property bag and the order's transaction state
// goes through here.
type Service interface {
	// RegisterOrder records a payable order pushed in by the store. When
	// orderNumber is empty one is generated.
	RegisterOrder(ctx context.Context, orderNumber, currency string, amount float64) (*Order, error)

	GeneratePaymentForm(ctx context.Context, orderNumber string) (*provider.FormResult, error)

	// ProcessCallback ingests one raw gateway callback. Rejected or
	// duplicate callbacks are not errors; an error means the event could
	// not be durably recorded and the gateway should redeliver.
	ProcessCallback(ctx context.Context, body []byte, checksum string) error

	FetchPaymentStatus(ctx context.Context, orderNumber string) (*provider.TransactionResult, error)
	CancelPayment(ctx context.Context, orderNumber string) (*provider.TransactionResult, error)
	CapturePayment(ctx context.Context, orderNumber string) (*provider.TransactionResult, error)
	RefundPayment(ctx context.Context, orderNumber string) (*provider.TransactionResult, error)
}

type service struct {
	repo       Repository
	provider   provider.Provider
	privateKey string
}

func NewService(repo Repository, p provider.Provider, privateKey string) Service {
	return &service{repo: repo, provider: p, privateKey: privateKey}
}

func (s *service) RegisterOrder(ctx context.Context, orderNumber, currency string, amount float64) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "RegisterOrder"),
	)

	if orderNumber == "" {
		orderNumber = utils.GenerateOrderNumber()
	}

	o := &Order{
		OrderNumber: orderNumber,
		Reference:   utils.GenerateOrderReference(),
		Currency:    currency,
		Amount:      amount,
		Status:      string(provider.StatusInitialized),
		Properties:  map[string]string{},
	}

	id, err := s.repo.CreateOrder(ctx, o)
	if err != nil {
		log.Error("failed to create order", zap.Error(err))
		return nil, err
	}
	o.ID = id

	log.Info("order registered",
		zap.String("order_number", o.OrderNumber),
		zap.String("currency", o.Currency),
	)
	return o, nil
}

func (s *service) GeneratePaymentForm(ctx context.Context, orderNumber string) (*provider.FormResult, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "GeneratePaymentForm"),
		zap.String("order_number", orderNumber),
	)

	// Two attempts: losing the property-write race means another request
	// already reconciled the session, so the reload hits the cached-link
	// path without a remote call.
	for attempt := 0; attempt < 2; attempt++ {
		o, err := s.repo.GetByOrderNumber(ctx, orderNumber)
		if err != nil {
			return nil, err
		}

		form, err := s.provider.GenerateForm(ctx, o.Snapshot())
		if err != nil {
			return nil, err
		}

		err = s.repo.SetProperties(ctx, o.ID, o.Property(provider.PropPaymentHash), form.MetaData)
		if errors.Is(err, ErrStaleSnapshot) {
			log.Warn("lost property-write race, reloading order")
			continue
		}
		if err != nil {
			return nil, err
		}

		return form, nil
	}

	return nil, ErrStaleSnapshot
}

// callbackEnvelope is the minimal slice of the callback payload needed to
// locate the local order before full provider-side processing.
type callbackEnvelope struct {
	OrderID   string            `json:"order_id"`
	Variables map[string]string `json:"variables"`
}

func (s *service) ProcessCallback(ctx context.Context, body []byte, checksum string) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "ProcessCallback"),
	)

	var env callbackEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		log.Warn("callback payload is not valid JSON", zap.Error(err))
		return nil
	}

	// Identical redeliveries carry identical bodies, so the body digest is
	// the idempotency key.
	digest := sha256.Sum256(body)
	eventID := hex.EncodeToString(digest[:])
	signatureValid := provider.ValidateChecksum(body, checksum, s.privateKey)

	orderNumber := env.Variables["orderNumber"]
	if orderNumber == "" {
		orderNumber = env.OrderID
	}

	eventRowID, isDuplicate, err := s.repo.SaveCallbackEvent(ctx, eventID, orderNumber, body, signatureValid)
	if err != nil {
		log.Error("failed to record callback event", zap.Error(err))
		return err
	}
	if isDuplicate {
		log.Info("duplicate callback delivery ignored", zap.String("event_id", eventID))
		return nil
	}

	o, err := s.lookupCallbackOrder(ctx, &env)
	if err != nil {
		log.Warn("callback order not found",
			zap.String("payload_order_id", env.OrderID),
			zap.Error(err),
		)
		return s.repo.MarkEventFailed(ctx, eventRowID, "order not found")
	}

	result := s.provider.ProcessCallback(ctx, o.Snapshot(), body, checksum)
	if result == nil {
		return s.repo.MarkEventFailed(ctx, eventRowID, "callback rejected")
	}

	if err := s.repo.UpdateTransaction(ctx, o.ID, result.TransactionID, string(result.Status), result.AmountAuthorized); err != nil {
		log.Error("failed to apply transaction result", zap.Error(err))
		if markErr := s.repo.MarkEventFailed(ctx, eventRowID, err.Error()); markErr != nil {
			log.Error("failed to mark event failed", zap.Error(markErr))
		}
		return err
	}

	log.Info("callback applied",
		zap.String("order_number", o.OrderNumber),
		zap.String("transaction_id", result.TransactionID),
		zap.String("status", string(result.Status)),
	)
	return s.repo.MarkEventProcessed(ctx, eventRowID)
}

func (s *service) lookupCallbackOrder(ctx context.Context, env *callbackEnvelope) (*Order, error) {
	if number := env.Variables["orderNumber"]; number != "" {
		return s.repo.GetByOrderNumber(ctx, number)
	}
	if env.OrderID == "" {
		return nil, fmt.Errorf("callback carries no order identifier: %w", ErrOrderNotFound)
	}
	o, err := s.repo.GetByRemoteOrderID(ctx, env.OrderID)
	if errors.Is(err, ErrOrderNotFound) {
		// Payments created without custom variables carry the order number
		// itself as the gateway order id, and no quickPayOrderId property is
		// ever cached for them.
		return s.repo.GetByOrderNumber(ctx, env.OrderID)
	}
	return o, err
}

type remoteCall func(ctx context.Context, snapshot provider.OrderSnapshot) *provider.TransactionResult

// runRemote executes one administrative gateway action and persists the
// outcome. A nil result is passed through untouched so callers can report
// the action as inconclusive.
func (s *service) runRemote(ctx context.Context, orderNumber string, call remoteCall) (*provider.TransactionResult, error) {
	o, err := s.repo.GetByOrderNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}

	result := call(ctx, o.Snapshot())
	if result == nil {
		return nil, nil
	}

	if err := s.repo.UpdateTransaction(ctx, o.ID, result.TransactionID, string(result.Status), result.AmountAuthorized); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) FetchPaymentStatus(ctx context.Context, orderNumber string) (*provider.TransactionResult, error) {
	return s.runRemote(ctx, orderNumber, s.provider.FetchPaymentStatus)
}

func (s *service) CancelPayment(ctx context.Context, orderNumber string) (*provider.TransactionResult, error) {
	return s.runRemote(ctx, orderNumber, s.provider.CancelPayment)
}

func (s *service) CapturePayment(ctx context.Context, orderNumber string) (*provider.TransactionResult, error) {
	return s.runRemote(ctx, orderNumber, s.provider.CapturePayment)
}

func (s *service) RefundPayment(ctx context.Context, orderNumber string) (*provider.TransactionResult, error) {
	return s.runRemote(ctx, orderNumber, s.provider.RefundPayment)
}
