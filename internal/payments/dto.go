package payments

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/craftline/storefront-backend/pkg/enums"
)

// IntentResponse is returned to the storefront so it can complete the payment
// in the browser. Amount is the order total in major units; the gateway alone
// sees minor units.
type IntentResponse struct {
	ClientSecret    string          `json:"clientSecret"`
	PaymentIntentID string          `json:"paymentIntentId"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
	OrderNumber     string          `json:"orderNumber"`
}

// ConfirmResponse reports the reconciled order state after a confirmation.
type ConfirmResponse struct {
	OrderNumber     string              `json:"orderNumber"`
	PaymentStatus   enums.PaymentStatus `json:"paymentStatus"`
	PaymentIntentID string              `json:"paymentIntentId"`
	PaidAt          time.Time           `json:"paidAt"`
}

// StatusResponse is the read-only payment view of an order.
type StatusResponse struct {
	OrderNumber     string              `json:"orderNumber"`
	Status          enums.OrderStatus   `json:"status"`
	PaymentStatus   enums.PaymentStatus `json:"paymentStatus"`
	PaymentIntentID string              `json:"paymentIntentId"`
	TotalAmount     decimal.Decimal     `json:"totalAmount"`
	Currency        string              `json:"currency"`
	IsPaid          bool                `json:"isPaid"`
	PaidAt          *time.Time          `json:"paidAt,omitempty"`
}
