package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/craftline/storefront-backend/api/responses"
	"github.com/craftline/storefront-backend/api/validators"
	"github.com/craftline/storefront-backend/internal/cart"
	pkgerrors "github.com/craftline/storefront-backend/pkg/errors"
	"github.com/craftline/storefront-backend/pkg/logger"
	"github.com/craftline/storefront-backend/pkg/types"
)

type addCartItemRequest struct {
	ProductID       int64                    `json:"productId" validate:"required"`
	ProductTitle    string                   `json:"productTitle" validate:"required"`
	ProductSlug     string                   `json:"productSlug"`
	UnitPrice       decimal.Decimal          `json:"unitPrice" validate:"required"`
	Quantity        int                      `json:"quantity" validate:"omitempty,min=1"`
	SelectedVariant []types.VariantOption    `json:"selectedVariant,omitempty"`
	UploadedFiles   []types.UploadAttachment `json:"uploadedFiles,omitempty"`
	CoverImageURL   string                   `json:"coverImageUrl,omitempty"`
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type cartResponse struct {
	SessionID   string          `json:"sessionId"`
	Items       []cart.Item     `json:"items"`
	TotalItems  int             `json:"totalItems"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

// CreateCartSession mints a new empty cart session.
func CreateCartSession(sessions CartSessions, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if sessions == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart store unavailable"))
			return
		}

		sessionID := sessions.NewSessionID()
		c := &cart.Cart{}
		if err := sessions.Save(r.Context(), sessionID, c); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newCartResponse(sessionID, c), "cart session created")
	}
}

// GetCart returns the cart held under the session.
func GetCart(sessions CartSessions, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := chi.URLParam(r, "sessionID")
		c, err := sessions.Get(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(sessionID, c), "cart retrieved")
	}
}

// AddCartItem merges an item into the session's cart.
func AddCartItem(sessions CartSessions, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := chi.URLParam(r, "sessionID")

		var payload addCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		c, err := sessions.Get(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quantity := payload.Quantity
		if quantity <= 0 {
			quantity = 1
		}
		c.AddItem(cart.Item{
			ProductID:       payload.ProductID,
			ProductTitle:    payload.ProductTitle,
			ProductSlug:     payload.ProductSlug,
			UnitPrice:       payload.UnitPrice,
			Quantity:        quantity,
			SelectedVariant: payload.SelectedVariant,
			UploadedFiles:   payload.UploadedFiles,
			CoverImageURL:   payload.CoverImageURL,
		})

		if err := sessions.Save(r.Context(), sessionID, c); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(sessionID, c), "item added")
	}
}

// SetCartItemQuantity replaces a line's quantity; zero removes the line.
func SetCartItemQuantity(sessions CartSessions, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := chi.URLParam(r, "sessionID")
		itemKey := chi.URLParam(r, "itemKey")

		var payload setQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		c, err := sessions.Get(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		c.SetQuantity(itemKey, payload.Quantity)

		if err := sessions.Save(r.Context(), sessionID, c); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(sessionID, c), "cart updated")
	}
}

// RemoveCartItem drops a line from the session's cart.
func RemoveCartItem(sessions CartSessions, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := chi.URLParam(r, "sessionID")
		itemKey := chi.URLParam(r, "itemKey")

		c, err := sessions.Get(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		c.RemoveItem(itemKey)

		if err := sessions.Save(r.Context(), sessionID, c); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(sessionID, c), "item removed")
	}
}

// ClearCart empties the session's cart.
func ClearCart(sessions CartSessions, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := chi.URLParam(r, "sessionID")
		if err := sessions.Clear(r.Context(), sessionID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(sessionID, &cart.Cart{}), "cart cleared")
	}
}

func newCartResponse(sessionID string, c *cart.Cart) cartResponse {
	items := c.Items
	if items == nil {
		items = []cart.Item{}
	}
	return cartResponse{
		SessionID:   sessionID,
		Items:       items,
		TotalItems:  c.TotalItems(),
		TotalAmount: c.TotalAmount(),
	}
}
