package orders

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/craftline/storefront-backend/internal/cart"
	"github.com/craftline/storefront-backend/pkg/enums"
	"github.com/craftline/storefront-backend/pkg/types"
)

// CreateOrderInput is everything checkout submits to turn a cart into an order.
type CreateOrderInput struct {
	Cart            *cart.Cart
	CustomerInfo    types.CustomerInfo
	ShippingAddress types.Address
	BillingAddress  types.BillingAddress
	CartSessionID   *string
	Notes           *string
	Currency        string
}

// PaymentUpdate carries the gateway-reported fields applied to an order after
// a confirmed payment. All fields land in one store write.
type PaymentUpdate struct {
	PaymentStatus    enums.PaymentStatus
	PaymentIntentID  string
	PaymentEmail     string
	PaymentMethod    string
	StripeCustomerID string
	PaidAt           time.Time
}

// OrderSummary is the read shape returned to API callers.
type OrderSummary struct {
	OrderNumber   string              `json:"orderNumber"`
	Status        enums.OrderStatus   `json:"status"`
	PaymentStatus enums.PaymentStatus `json:"paymentStatus"`
	TotalItems    int                 `json:"totalItems"`
	TotalAmount   decimal.Decimal     `json:"totalAmount"`
	Currency      string              `json:"currency"`
	PaidAt        *time.Time          `json:"paidAt,omitempty"`
	CreatedAt     time.Time           `json:"createdAt"`
}
