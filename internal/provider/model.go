package provider

import (
	"strconv"
	"strings"
)

// Property keys the provider persists into the order's property bag. The
// bag is owned and synchronized by the host order store; the provider only
// reads a snapshot and proposes writes through FormResult.MetaData.
const (
	PropOrderID         = "quickPayOrderId"
	PropPaymentID       = "quickPayPaymentId"
	PropPaymentHash     = "quickPayPaymentHash"
	PropPaymentLinkHash = "quickPayPaymentLinkHash"
)

// OrderSnapshot is the read-only view of an order the provider operates
// on. All fields are captured at one point in time; the hash comparison in
// GenerateForm depends on both sides seeing the same snapshot.
type OrderSnapshot struct {
	// OrderNumber is the immutable business-visible order number.
	OrderNumber string
	// Reference is a deterministic identifier the host derives from the
	// order, carried to the gateway as a custom variable and used to verify
	// callbacks. Collision-resistant, unlike the truncated gateway order id.
	Reference string
	// Currency is the order's ISO 4217 alphabetic currency code.
	Currency string
	// Amount is the transaction amount in major units.
	Amount float64
	// Properties is the string-keyed property bag snapshot.
	Properties map[string]string
}

// Property returns the named property or "" when absent.
func (o OrderSnapshot) Property(key string) string {
	if o.Properties == nil {
		return ""
	}
	return o.Properties[key]
}

// Settings configures one provider instance for a QuickPay agreement.
type Settings struct {
	PrivateKey string

	// MerchantID is the QuickPay merchant account number. When set,
	// callbacks reporting a different merchant are rejected.
	MerchantID string

	// AgreementID selects the payment-window agreement the hosted link is
	// created under.
	AgreementID string

	ContinueURL string
	CancelURL   string
	ErrorURL    string
	CallbackURL string

	Language       string
	PaymentMethods string
	AutoFee        bool
	AutoCapture    bool
	Framed         bool

	// OrderNumberTemplate is the host's order-number decoration, e.g.
	// "INV-{0}". Used to strip decoration when the order number exceeds the
	// gateway's 20-character order id limit.
	OrderNumberTemplate string

	// VerifyByRemoteOrderID forces callback verification against the cached
	// quickPayOrderId property instead of the orderReference custom
	// variable. Needed for agreements created without custom variables.
	VerifyByRemoteOrderID bool
}

// Validate checks the settings a provider cannot operate without.
func (s Settings) Validate() error {
	if s.PrivateKey == "" || s.ContinueURL == "" || s.CancelURL == "" || s.ErrorURL == "" {
		return ErrMissingSetting
	}
	return nil
}

// agreementID parses the configured agreement id into the numeric form the
// link endpoint takes. Unset or malformed values are left off the request.
func (s Settings) agreementID() int64 {
	id, err := strconv.ParseInt(s.AgreementID, 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// paymentMethodList splits the comma-separated accepted-methods setting,
// trimming whitespace and dropping empty entries.
func (s Settings) paymentMethodList() string {
	var parts []string
	for _, m := range strings.Split(s.PaymentMethods, ",") {
		if m = strings.TrimSpace(m); m != "" {
			parts = append(parts, m)
		}
	}
	return strings.Join(parts, ",")
}

// FormResult is the outcome of one form-generation request: a redirect to
// the hosted payment window plus the session metadata the caller must
// persist onto the order. A blank URL means remote creation failed; the
// metadata is still returned so the cached state stays coherent.
type FormResult struct {
	URL      string
	Method   string
	MetaData map[string]string
}

// TransactionResult reports a settled gateway outcome. A nil
// *TransactionResult from any provider method is an explicit no-op: the
// callback or action was inconclusive and the host should not transition
// the order.
type TransactionResult struct {
	TransactionID    string
	AmountAuthorized float64
	Status           Status
}
