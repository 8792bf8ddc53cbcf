package quickpay

import (
	"encoding/json"
	"time"
)

// Payment is the gateway's server-side representation of one checkout
// attempt. The id is numeric on the wire but opaque to us.
type Payment struct {
	ID           json.Number       `json:"id"`
	MerchantID   json.Number       `json:"merchant_id"`
	OrderID      string            `json:"order_id"`
	Accepted     bool              `json:"accepted"`
	Type         string            `json:"type"`
	Currency     string            `json:"currency"`
	State        string            `json:"state"`
	Operations   []Operation       `json:"operations"`
	Variables    map[string]string `json:"variables"`
	MetaData     *MetaData         `json:"metadata"`
	Link         *PaymentLink      `json:"link"`
	TestMode     bool              `json:"test_mode"`
	Acquirer     string            `json:"acquirer"`
	Balance      int64             `json:"balance"`
	Fee          *int64            `json:"fee"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
	RetentedAt   *time.Time        `json:"retented_at"`
	DeadlineAt   *time.Time        `json:"deadline_at"`
	Subscription *json.Number      `json:"subscription_id"`
}

// TransactionID returns the payment id as the opaque token stored on the
// order and echoed back to the host system.
func (p *Payment) TransactionID() string {
	if p == nil {
		return ""
	}
	return p.ID.String()
}

// LastOperation returns the most recent lifecycle event, or nil.
func (p *Payment) LastOperation() *Operation {
	if p == nil || len(p.Operations) == 0 {
		return nil
	}
	return &p.Operations[len(p.Operations)-1]
}

// Operation is one state-transition event recorded against a payment.
// Operations are append-only and ordered by occurrence.
type Operation struct {
	ID                 json.Number `json:"id"`
	Type               string      `json:"type"`
	Amount             int64       `json:"amount"`
	Pending            bool        `json:"pending"`
	QPStatusCode       string      `json:"qp_status_code"`
	QPStatusMsg        string      `json:"qp_status_msg"`
	AcquirerStatusCode string      `json:"aq_status_code"`
	AcquirerStatusMsg  string      `json:"aq_status_msg"`
	CreatedAt          *time.Time  `json:"created_at"`
}

const (
	// StatusCodeApproved is QuickPay's internal success code.
	StatusCodeApproved = "20000"
	// AcquirerCodeApproved is the acquirer-level success code.
	AcquirerCodeApproved = "000"
)

// Approved reports whether the operation's outcome was judged successful
// by either the gateway or the acquirer.
func (o *Operation) Approved() bool {
	if o == nil {
		return false
	}
	return o.QPStatusCode == StatusCodeApproved || o.AcquirerStatusCode == AcquirerCodeApproved
}

// Completed reports whether the operation settled successfully on the
// gateway side. Only completed operations drive durable state.
func (o *Operation) Completed() bool {
	if o == nil {
		return false
	}
	return !o.Pending && o.QPStatusCode == StatusCodeApproved
}

// PaymentLink is the link block embedded in a payment payload.
type PaymentLink struct {
	URL         string `json:"url"`
	Amount      int64  `json:"amount"`
	ContinueURL string `json:"continue_url"`
	CancelURL   string `json:"cancel_url"`
	CallbackURL string `json:"callback_url"`
}

// PaymentLinkURL is the response of PUT /payments/{id}/link.
type PaymentLinkURL struct {
	URL string `json:"url"`
}

// PaymentRequest is the body of POST /payments. The order id must be
// 4-20 characters.
type PaymentRequest struct {
	OrderID   string            `json:"order_id"`
	Currency  string            `json:"currency"`
	Variables map[string]string `json:"variables,omitempty"`
}

// PaymentLinkRequest is the body of PUT /payments/{id}/link.
type PaymentLinkRequest struct {
	Amount         int64  `json:"amount"`
	AgreementID    int64  `json:"agreement_id,omitempty"`
	Language       string `json:"language,omitempty"`
	ContinueURL    string `json:"continue_url,omitempty"`
	CancelURL      string `json:"cancel_url,omitempty"`
	CallbackURL    string `json:"callback_url,omitempty"`
	PaymentMethods string `json:"payment_methods,omitempty"`
	AutoFee        bool   `json:"auto_fee,omitempty"`
	AutoCapture    bool   `json:"auto_capture,omitempty"`
	Framed         bool   `json:"framed,omitempty"`
}

// amountRequest is the optional body of cancel/capture/refund.
type amountRequest struct {
	Amount int64 `json:"amount"`
}
