package payments

import (
	"context"

	stripego "github.com/stripe/stripe-go/v84"

	"github.com/craftline/storefront-backend/internal/orders"
	"github.com/craftline/storefront-backend/pkg/db/models"
	gateway "github.com/craftline/storefront-backend/pkg/stripe"
)

// Gateway is the payment-provider surface this service consumes.
type Gateway interface {
	CreatePaymentIntent(ctx context.Context, params gateway.IntentCreateParams) (*gateway.IntentResult, error)
	RetrieveAndConfirm(ctx context.Context, paymentIntentID string) (*gateway.PaymentDetails, error)
	CreateOrGetCustomer(ctx context.Context, email, name string) (*stripego.Customer, error)
}

// OrderStore is the slice of the order service the payment flow needs.
type OrderStore interface {
	GetByNumber(ctx context.Context, orderNumber string) (*models.Order, error)
	UpdateOrderPayment(ctx context.Context, orderNumber string, update orders.PaymentUpdate) error
}
