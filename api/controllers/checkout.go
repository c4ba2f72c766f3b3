package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/craftline/storefront-backend/api/responses"
	"github.com/craftline/storefront-backend/api/validators"
	"github.com/craftline/storefront-backend/internal/cart"
	"github.com/craftline/storefront-backend/internal/orders"
	"github.com/craftline/storefront-backend/pkg/db/models"
	pkgerrors "github.com/craftline/storefront-backend/pkg/errors"
	"github.com/craftline/storefront-backend/pkg/logger"
	"github.com/craftline/storefront-backend/pkg/types"
)

type checkoutItemRequest struct {
	ProductID       int64                    `json:"productId" validate:"required"`
	ProductTitle    string                   `json:"productTitle" validate:"required"`
	ProductSlug     string                   `json:"productSlug"`
	UnitPrice       decimal.Decimal          `json:"unitPrice" validate:"required"`
	Quantity        int                      `json:"quantity" validate:"required,min=1"`
	SelectedVariant []types.VariantOption    `json:"selectedVariant,omitempty"`
	UploadedFiles   []types.UploadAttachment `json:"uploadedFiles,omitempty"`
}

type checkoutRequest struct {
	CartSessionID   string                `json:"cartSessionId"`
	Items           []checkoutItemRequest `json:"items"`
	CustomerInfo    types.CustomerInfo    `json:"customerInfo"`
	ShippingAddress types.Address         `json:"shippingAddress"`
	BillingAddress  types.BillingAddress  `json:"billingAddress"`
	Notes           *string               `json:"notes,omitempty"`
}

type checkoutResponse struct {
	OrderNumber string          `json:"orderNumber"`
	TotalItems  int             `json:"totalItems"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Currency    string          `json:"currency"`
}

// Checkout turns the submitted cart into a persisted order. The cart comes
// either from a held session or inline in the request body.
func Checkout(orderSvc OrderService, sessions CartSessions, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if orderSvc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		c, err := cartFromRequest(r, sessions, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := orders.CreateOrderInput{
			Cart:            c,
			CustomerInfo:    payload.CustomerInfo,
			ShippingAddress: payload.ShippingAddress,
			BillingAddress:  payload.BillingAddress,
			Notes:           payload.Notes,
		}
		if payload.CartSessionID != "" {
			sessionID := payload.CartSessionID
			input.CartSessionID = &sessionID
		}

		order, err := orderSvc.CreateFromCart(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		// The held cart is spent. Clearing it is best effort; the order is
		// already durable.
		if sessions != nil && payload.CartSessionID != "" {
			if err := sessions.Clear(r.Context(), payload.CartSessionID); err != nil && logg != nil {
				logg.Warn(logg.WithCartSession(r.Context(), payload.CartSessionID), "clearing cart session after checkout failed")
			}
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newCheckoutResponse(order), "order created")
	}
}

func cartFromRequest(r *http.Request, sessions CartSessions, payload checkoutRequest) (*cart.Cart, error) {
	if payload.CartSessionID != "" && sessions != nil {
		return sessions.Get(r.Context(), payload.CartSessionID)
	}
	c := &cart.Cart{}
	for _, item := range payload.Items {
		c.AddItem(cart.Item{
			ProductID:       item.ProductID,
			ProductTitle:    item.ProductTitle,
			ProductSlug:     item.ProductSlug,
			UnitPrice:       item.UnitPrice,
			Quantity:        item.Quantity,
			SelectedVariant: item.SelectedVariant,
			UploadedFiles:   item.UploadedFiles,
		})
	}
	return c, nil
}

func newCheckoutResponse(order *models.Order) checkoutResponse {
	return checkoutResponse{
		OrderNumber: order.OrderNumber,
		TotalItems:  order.TotalItems,
		TotalAmount: order.TotalAmount,
		Currency:    order.Currency,
	}
}
