package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/craftline/storefront-backend/api/responses"
	"github.com/craftline/storefront-backend/internal/orders"
	"github.com/craftline/storefront-backend/pkg/db/models"
	pkgerrors "github.com/craftline/storefront-backend/pkg/errors"
	"github.com/craftline/storefront-backend/pkg/logger"
	"github.com/craftline/storefront-backend/pkg/types"
)

type orderResponse struct {
	orders.OrderSummary
	CustomerInfo    types.CustomerInfo   `json:"customerInfo"`
	ShippingAddress types.Address        `json:"shippingAddress"`
	BillingAddress  types.BillingAddress `json:"billingAddress"`
	Items           []orderItemResponse  `json:"items"`
}

type orderItemResponse struct {
	ProductID       int64                 `json:"productId"`
	ProductTitle    string                `json:"productTitle"`
	ProductSlug     string                `json:"productSlug"`
	UnitPrice       decimal.Decimal       `json:"unitPrice"`
	Quantity        int                   `json:"quantity"`
	SelectedVariant []types.VariantOption `json:"selectedVariant,omitempty"`
}

// GetOrder returns one order by its public number.
func GetOrder(svc OrderService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		orderNumber := chi.URLParam(r, "orderNumber")
		order, err := svc.GetByNumber(r.Context(), orderNumber)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newOrderResponse(order), "order retrieved")
	}
}

func newOrderResponse(order *models.Order) orderResponse {
	items := make([]orderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, orderItemResponse{
			ProductID:       item.ProductID,
			ProductTitle:    item.ProductTitle,
			ProductSlug:     item.ProductSlug,
			UnitPrice:       item.UnitPrice,
			Quantity:        item.Quantity,
			SelectedVariant: item.SelectedVariant,
		})
	}
	var paidAt *time.Time
	if order.PaidAt != nil {
		t := order.PaidAt.UTC()
		paidAt = &t
	}
	return orderResponse{
		OrderSummary: orders.OrderSummary{
			OrderNumber:   order.OrderNumber,
			Status:        order.Status,
			PaymentStatus: order.PaymentStatus,
			TotalItems:    order.TotalItems,
			TotalAmount:   order.TotalAmount,
			Currency:      order.Currency,
			PaidAt:        paidAt,
			CreatedAt:     order.CreatedAt,
		},
		CustomerInfo:    order.CustomerInfo,
		ShippingAddress: order.ShippingAddress,
		BillingAddress:  order.BillingAddress,
		Items:           items,
	}
}
