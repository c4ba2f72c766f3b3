package controllers

import (
	"context"

	"github.com/craftline/storefront-backend/internal/cart"
	"github.com/craftline/storefront-backend/internal/orders"
	"github.com/craftline/storefront-backend/internal/payments"
	"github.com/craftline/storefront-backend/pkg/db/models"
)

// PaymentService is the payment flow surface the handlers consume.
type PaymentService interface {
	CreateIntent(ctx context.Context, orderNumber, emailOverride string) (*payments.IntentResponse, error)
	Confirm(ctx context.Context, paymentIntentID, orderNumber string) (*payments.ConfirmResponse, error)
	Status(ctx context.Context, orderNumber string) (*payments.StatusResponse, error)
}

// OrderService is the order lifecycle surface the handlers consume.
type OrderService interface {
	CreateFromCart(ctx context.Context, input orders.CreateOrderInput) (*models.Order, error)
	GetByNumber(ctx context.Context, orderNumber string) (*models.Order, error)
}

// CartSessions is the session-backed cart surface the handlers consume.
type CartSessions interface {
	NewSessionID() string
	Get(ctx context.Context, sessionID string) (*cart.Cart, error)
	Save(ctx context.Context, sessionID string, c *cart.Cart) error
	Clear(ctx context.Context, sessionID string) error
}

// CatalogService is the product read surface the handlers consume.
type CatalogService interface {
	List(ctx context.Context, limit, offset int) ([]models.Product, error)
	GetBySlug(ctx context.Context, slug string) (*models.Product, error)
}
