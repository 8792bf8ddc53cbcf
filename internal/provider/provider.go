package provider

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"quickpay-be/internal/logger"
	"quickpay-be/internal/metrics"
	"quickpay-be/internal/quickpay"

	"go.uber.org/zap"
)

// Provider is one gateway variant's capability set. GenerateForm may fail
// fast on validation; every other method swallows remote errors at the
// boundary and reports a nil result instead of propagating.
type Provider interface {
	GenerateForm(ctx context.Context, order OrderSnapshot) (*FormResult, error)
	ProcessCallback(ctx context.Context, order OrderSnapshot, body []byte, checksum string) *TransactionResult
	FetchPaymentStatus(ctx context.Context, order OrderSnapshot) *TransactionResult
	CancelPayment(ctx context.Context, order OrderSnapshot) *TransactionResult
	CapturePayment(ctx context.Context, order OrderSnapshot) *TransactionResult
	RefundPayment(ctx context.Context, order OrderSnapshot) *TransactionResult
}

type base struct {
	gateway  quickpay.Gateway
	settings Settings
}

// CheckoutProvider is the current gateway integration: payments carry
// custom variables for collision-resistant callback verification, and
// operation outcomes drive status transitions.
type CheckoutProvider struct {
	base
}

// LegacyProvider is the original integration kept for agreements created
// before custom variables: raw order numbers as gateway order ids and
// aggregate-state status mapping.
type LegacyProvider struct {
	base
}

func NewCheckoutProvider(gateway quickpay.Gateway, settings Settings) *CheckoutProvider {
	return &CheckoutProvider{base{gateway: gateway, settings: settings}}
}

func NewLegacyProvider(gateway quickpay.Gateway, settings Settings) *LegacyProvider {
	return &LegacyProvider{base{gateway: gateway, settings: settings}}
}

// ----------------- Form generation -----------------

// generateForm implements the shared session-reconciliation state machine.
// withVariables controls whether custom variables are attached to the
// remote payment and whether the normalized reference is cached.
func (b *base) generateForm(ctx context.Context, order OrderSnapshot, withVariables bool) (*FormResult, error) {
	log := logger.FromCtx(ctx).With(zap.String("order_number", order.OrderNumber))

	currencyCode := strings.ToUpper(order.Currency)
	exponent, ok := CurrencyExponent(currencyCode)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCurrency, order.Currency)
	}

	// Snapshot minor amount once; the hash comparison below and any hash
	// recomputation must see the same value.
	minorAmount := strconv.FormatInt(ToMinorUnits(order.Amount, exponent), 10)

	remoteOrderID := order.Property(PropOrderID)
	paymentID := order.Property(PropPaymentID)
	paymentHash := order.Property(PropPaymentHash)
	linkHash := order.Property(PropPaymentLinkHash)

	formLink := ""

	if VerifyPaymentHash(paymentHash, paymentID, order.OrderNumber, currencyCode, minorAmount) {
		// Session still valid: reuse the cached link, no gateway call.
		decoded, err := base64.StdEncoding.DecodeString(linkHash)
		if err != nil {
			log.Warn("Cached payment link is not valid base64", zap.Error(err))
		} else {
			formLink = string(decoded)
			metrics.PaymentLinksReused.Inc()
			log.Info("Reusing cached payment link", zap.String("payment_id", paymentID))
		}
	} else {
		reference := order.OrderNumber
		if withVariables {
			normalized, err := NormalizeOrderReference(order.OrderNumber, b.settings.OrderNumberTemplate)
			if err != nil {
				return nil, err
			}
			reference = normalized
		}

		req := quickpay.PaymentRequest{
			OrderID:  reference,
			Currency: currencyCode,
		}
		if withVariables {
			req.Variables = map[string]string{
				"orderReference": order.Reference,
				"orderNumber":    order.OrderNumber,
			}
		}

		payment, err := b.gateway.CreatePayment(ctx, req)
		if err != nil {
			log.Error("QuickPay - error creating payment", zap.Error(err))
			metrics.GatewayErrors.Inc()
			return b.formResult(formLink, remoteOrderID, paymentID, paymentHash, linkHash, withVariables), nil
		}

		remoteOrderID = reference
		paymentID = payment.TransactionID()

		link, err := b.gateway.CreatePaymentLink(ctx, paymentID, quickpay.PaymentLinkRequest{
			Amount:         ToMinorUnits(order.Amount, exponent),
			AgreementID:    b.settings.agreementID(),
			Language:       quickpay.NormalizeLanguage(b.settings.Language),
			ContinueURL:    b.settings.ContinueURL,
			CancelURL:      b.settings.CancelURL,
			CallbackURL:    b.settings.CallbackURL,
			PaymentMethods: b.settings.paymentMethodList(),
			AutoFee:        b.settings.AutoFee,
			AutoCapture:    b.settings.AutoCapture,
			Framed:         b.settings.Framed,
		})
		if err != nil {
			// The payment exists remotely but has no link. The new payment id
			// is still handed back: the stale hash forces a fresh attempt on
			// the next call.
			log.Error("QuickPay - error creating payment link", zap.Error(err))
			metrics.GatewayErrors.Inc()
			return b.formResult(formLink, remoteOrderID, paymentID, paymentHash, linkHash, withVariables), nil
		}

		formLink = link.URL
		paymentHash = PaymentHash(paymentID, order.OrderNumber, currencyCode, minorAmount)
		linkHash = base64.StdEncoding.EncodeToString([]byte(formLink))
		metrics.PaymentsCreated.Inc()

		log.Info("Created QuickPay payment",
			zap.String("payment_id", paymentID),
			zap.String("remote_order_id", remoteOrderID),
		)
	}

	return b.formResult(formLink, remoteOrderID, paymentID, paymentHash, linkHash, withVariables), nil
}

func (b *base) formResult(url, remoteOrderID, paymentID, paymentHash, linkHash string, withOrderID bool) *FormResult {
	meta := map[string]string{
		PropPaymentID:       paymentID,
		PropPaymentHash:     paymentHash,
		PropPaymentLinkHash: linkHash,
	}
	if withOrderID {
		meta[PropOrderID] = remoteOrderID
	}
	return &FormResult{
		URL:      url,
		Method:   http.MethodGet,
		MetaData: meta,
	}
}

func (p *CheckoutProvider) GenerateForm(ctx context.Context, order OrderSnapshot) (*FormResult, error) {
	return p.generateForm(ctx, order, true)
}

func (p *LegacyProvider) GenerateForm(ctx context.Context, order OrderSnapshot) (*FormResult, error) {
	return p.generateForm(ctx, order, false)
}

// ----------------- Callback processing -----------------

// parseCallback authenticates and decodes a raw callback body. The caller
// must pass the body bytes exactly as received off the wire.
func (b *base) parseCallback(ctx context.Context, order OrderSnapshot, body []byte, checksum string) *quickpay.Payment {
	log := logger.FromCtx(ctx).With(zap.String("order_number", order.OrderNumber))

	if !ValidateChecksum(body, checksum, b.settings.PrivateKey) {
		log.Warn("QuickPay - checksum validation failed")
		metrics.CallbacksRejected.Inc()
		return nil
	}

	var payment quickpay.Payment
	if err := json.Unmarshal(body, &payment); err != nil {
		log.Error("QuickPay - failed decoding callback payload", zap.Error(err))
		metrics.CallbacksRejected.Inc()
		return nil
	}

	if b.settings.MerchantID != "" && payment.MerchantID.String() != b.settings.MerchantID {
		log.Warn("QuickPay - callback reports a different merchant",
			zap.String("payload_merchant_id", payment.MerchantID.String()),
		)
		metrics.CallbacksRejected.Inc()
		return nil
	}

	return &payment
}

func (p *CheckoutProvider) ProcessCallback(ctx context.Context, order OrderSnapshot, body []byte, checksum string) *TransactionResult {
	log := logger.FromCtx(ctx).With(zap.String("order_number", order.OrderNumber))

	payment := p.parseCallback(ctx, order, body, checksum)
	if payment == nil {
		return nil
	}

	if !p.verifyOrder(order, payment) {
		log.Warn("QuickPay - couldn't verify the order",
			zap.String("payload_order_id", payment.OrderID),
		)
		metrics.CallbacksRejected.Inc()
		return nil
	}

	operation := payment.LastOperation()
	if operation == nil {
		log.Warn("QuickPay - callback carried no operations")
		return nil
	}

	if !operation.Approved() {
		log.Warn("QuickPay - payment not approved",
			zap.String("qp_status_code", operation.QPStatusCode),
			zap.String("qp_status_msg", operation.QPStatusMsg),
			zap.String("aq_status_code", operation.AcquirerStatusCode),
			zap.String("aq_status_msg", operation.AcquirerStatusMsg),
		)
		return nil
	}

	metrics.CallbacksAccepted.Inc()
	return &TransactionResult{
		TransactionID:    payment.TransactionID(),
		AmountAuthorized: p.amountFromMinor(order, operation.Amount),
		Status:           StatusFromOperation(operation),
	}
}

// verifyOrder matches the callback payload against the local order. The
// orderReference custom variable is preferred when the payment was created
// with variables; otherwise the cached remote order id is compared.
func (p *CheckoutProvider) verifyOrder(order OrderSnapshot, payment *quickpay.Payment) bool {
	if !p.settings.VerifyByRemoteOrderID {
		if ref, ok := payment.Variables["orderReference"]; ok {
			return order.Reference == ref
		}
	}
	return order.Property(PropOrderID) != "" && order.Property(PropOrderID) == payment.OrderID
}

func (p *LegacyProvider) ProcessCallback(ctx context.Context, order OrderSnapshot, body []byte, checksum string) *TransactionResult {
	log := logger.FromCtx(ctx).With(zap.String("order_number", order.OrderNumber))

	payment := p.parseCallback(ctx, order, body, checksum)
	if payment == nil {
		return nil
	}

	operation := payment.LastOperation()
	if operation == nil {
		log.Warn("QuickPay - callback carried no operations")
		return nil
	}

	if !operation.Approved() {
		log.Warn("QuickPay - payment not approved",
			zap.String("qp_status_code", operation.QPStatusCode),
			zap.String("aq_status_code", operation.AcquirerStatusCode),
		)
		return nil
	}

	metrics.CallbacksAccepted.Inc()
	return &TransactionResult{
		TransactionID:    payment.TransactionID(),
		AmountAuthorized: p.amountFromMinor(order, operation.Amount),
		Status:           StatusFromState(payment.State),
	}
}

// ----------------- Remote actions -----------------

type paymentCall func(ctx context.Context, paymentID string) (*quickpay.Payment, error)

// remoteAction runs one administrative gateway call and maps the result.
// Every failure degrades to a nil result; nothing escapes the boundary.
func (b *base) remoteAction(ctx context.Context, order OrderSnapshot, name string, call paymentCall, mapPayment func(*quickpay.Payment) *TransactionResult) *TransactionResult {
	log := logger.FromCtx(ctx).With(
		zap.String("order_number", order.OrderNumber),
		zap.String("action", name),
	)

	paymentID := order.Property(PropPaymentID)
	if paymentID == "" {
		log.Warn("QuickPay - order has no cached payment id")
		return nil
	}

	payment, err := call(ctx, paymentID)
	if err != nil {
		log.Error("QuickPay - remote action failed", zap.Error(err))
		metrics.GatewayErrors.Inc()
		return nil
	}

	result := mapPayment(payment)
	if result == nil {
		log.Warn("QuickPay - no completed operation, action inconclusive")
	}
	return result
}

// completedOperationResult is the checkout mapping: only the last
// non-pending, gateway-approved operation is authoritative.
func (b *base) completedOperationResult(order OrderSnapshot) func(*quickpay.Payment) *TransactionResult {
	return func(payment *quickpay.Payment) *TransactionResult {
		operation := LastCompletedOperation(payment.Operations)
		if operation == nil {
			return nil
		}
		return &TransactionResult{
			TransactionID:    payment.TransactionID(),
			AmountAuthorized: b.amountFromMinor(order, operation.Amount),
			Status:           StatusFromOperation(operation),
		}
	}
}

// stateResult is the legacy mapping from the payment's aggregate state.
func (b *base) stateResult(order OrderSnapshot) func(*quickpay.Payment) *TransactionResult {
	return func(payment *quickpay.Payment) *TransactionResult {
		return &TransactionResult{
			TransactionID:    payment.TransactionID(),
			AmountAuthorized: order.Amount,
			Status:           StatusFromState(payment.State),
		}
	}
}

func (b *base) amountFromMinor(order OrderSnapshot, minor int64) float64 {
	exponent, ok := CurrencyExponent(order.Currency)
	if !ok {
		exponent = 2
	}
	return FromMinorUnits(minor, exponent)
}

func (b *base) authorizedMinor(order OrderSnapshot) int64 {
	exponent, ok := CurrencyExponent(order.Currency)
	if !ok {
		exponent = 2
	}
	return ToMinorUnits(order.Amount, exponent)
}

func (p *CheckoutProvider) FetchPaymentStatus(ctx context.Context, order OrderSnapshot) *TransactionResult {
	return p.remoteAction(ctx, order, "fetch_status", p.gateway.GetPayment, p.completedOperationResult(order))
}

func (p *CheckoutProvider) CancelPayment(ctx context.Context, order OrderSnapshot) *TransactionResult {
	return p.remoteAction(ctx, order, "cancel", p.gateway.CancelPayment, p.completedOperationResult(order))
}

func (p *CheckoutProvider) CapturePayment(ctx context.Context, order OrderSnapshot) *TransactionResult {
	capture := func(ctx context.Context, id string) (*quickpay.Payment, error) {
		return p.gateway.CapturePayment(ctx, id, p.authorizedMinor(order))
	}
	return p.remoteAction(ctx, order, "capture", capture, p.completedOperationResult(order))
}

func (p *CheckoutProvider) RefundPayment(ctx context.Context, order OrderSnapshot) *TransactionResult {
	refund := func(ctx context.Context, id string) (*quickpay.Payment, error) {
		return p.gateway.RefundPayment(ctx, id, p.authorizedMinor(order))
	}
	return p.remoteAction(ctx, order, "refund", refund, p.completedOperationResult(order))
}

func (p *LegacyProvider) FetchPaymentStatus(ctx context.Context, order OrderSnapshot) *TransactionResult {
	return p.remoteAction(ctx, order, "fetch_status", p.gateway.GetPayment, p.stateResult(order))
}

func (p *LegacyProvider) CancelPayment(ctx context.Context, order OrderSnapshot) *TransactionResult {
	return p.remoteAction(ctx, order, "cancel", p.gateway.CancelPayment, p.stateResult(order))
}

func (p *LegacyProvider) CapturePayment(ctx context.Context, order OrderSnapshot) *TransactionResult {
	capture := func(ctx context.Context, id string) (*quickpay.Payment, error) {
		return p.gateway.CapturePayment(ctx, id, p.authorizedMinor(order))
	}
	return p.remoteAction(ctx, order, "capture", capture, p.stateResult(order))
}

func (p *LegacyProvider) RefundPayment(ctx context.Context, order OrderSnapshot) *TransactionResult {
	refund := func(ctx context.Context, id string) (*quickpay.Payment, error) {
		return p.gateway.RefundPayment(ctx, id, p.authorizedMinor(order))
	}
	return p.remoteAction(ctx, order, "refund", refund, p.stateResult(order))
}
