package stripe

import (
	"context"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v84"

	pkgerrors "github.com/craftline/storefront-backend/pkg/errors"
)

const (
	metadataOrderNumber   = "orderNumber"
	metadataOrderID       = "orderId"
	metadataCustomerEmail = "customerEmail"
)

// IntentCreateParams carries everything needed to mint a payment intent.
type IntentCreateParams struct {
	AmountMinorUnits int64
	Currency         string
	OrderNumber      string
	OrderID          string
	CustomerEmail    string
}

func (p IntentCreateParams) validate() error {
	if p.AmountMinorUnits <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "intent amount must be positive")
	}
	if p.Currency == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "intent currency required")
	}
	if p.OrderNumber == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "intent order number required")
	}
	return nil
}

func (p IntentCreateParams) toStripeParams(ctx context.Context) *stripe.PaymentIntentParams {
	params := &stripe.PaymentIntentParams{
		Params:       stripe.Params{Context: ctx},
		Amount:       stripe.Int64(p.AmountMinorUnits),
		Currency:     stripe.String(p.Currency),
		Description:  stripe.String(fmt.Sprintf("Payment for order %s", p.OrderNumber)),
		ReceiptEmail: stripe.String(p.CustomerEmail),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.AddMetadata(metadataOrderNumber, p.OrderNumber)
	params.AddMetadata(metadataOrderID, p.OrderID)
	params.AddMetadata(metadataCustomerEmail, p.CustomerEmail)
	return params
}

// IntentResult is what the client needs to complete payment in the browser.
type IntentResult struct {
	ClientSecret    string
	PaymentIntentID string
}

// PaymentDetails is the gateway-reported state of a succeeded intent.
type PaymentDetails struct {
	PaymentIntentID string
	CustomerEmail   string
	PaymentMethodID string
	AmountReceived  int64
	Currency        string
	CreatedAt       time.Time
	Metadata        map[string]string
}
