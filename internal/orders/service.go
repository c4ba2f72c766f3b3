package orders

import (
	"context"
	"fmt"
	"math/rand/v2"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"

	"github.com/craftline/storefront-backend/internal/cart"
	"github.com/craftline/storefront-backend/pkg/db"
	"github.com/craftline/storefront-backend/pkg/db/models"
	"github.com/craftline/storefront-backend/pkg/enums"
	pkgerrors "github.com/craftline/storefront-backend/pkg/errors"
	"github.com/craftline/storefront-backend/pkg/logger"
	"github.com/craftline/storefront-backend/pkg/metrics"
	"github.com/craftline/storefront-backend/pkg/types"
)

const (
	defaultCurrency       = "usd"
	orderNumberMaxRetries = 3
)

// Service owns the order lifecycle: creation from a cart snapshot, reads by
// order number, and the narrow status/payment updates the payment flow needs.
type Service struct {
	repo    Repository
	logger  *logger.Logger
	metrics *metrics.PaymentMetrics
	now     func() time.Time
	randInt func(n int) int
}

// NewService wires the order service.
func NewService(repo Repository, logg *logger.Logger, m *metrics.PaymentMetrics) *Service {
	return &Service{
		repo:    repo,
		logger:  logg,
		metrics: m,
		now:     time.Now,
		randInt: rand.IntN,
	}
}

// CreateFromCart validates the submission, snapshots the cart into an order,
// and persists it with a fresh order number. The cart's prices are copied
// verbatim; nothing is re-priced here.
func (s *Service) CreateFromCart(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	if input.Cart == nil || input.Cart.IsEmpty() {
		return nil, pkgerrors.New(pkgerrors.CodeEmptyCart, "cart is empty")
	}
	if err := validateCustomer(input.CustomerInfo); err != nil {
		return nil, err
	}
	if err := validateAddresses(input.ShippingAddress, input.BillingAddress); err != nil {
		return nil, err
	}

	currency := strings.ToLower(strings.TrimSpace(input.Currency))
	if currency == "" {
		currency = defaultCurrency
	}

	order := &models.Order{
		ID:              uuid.New(),
		Status:          enums.OrderStatusPending,
		PaymentStatus:   enums.PaymentStatusPending,
		TotalItems:      input.Cart.TotalItems(),
		TotalAmount:     input.Cart.TotalAmount(),
		Currency:        currency,
		CustomerInfo:    input.CustomerInfo,
		ShippingAddress: input.ShippingAddress,
		BillingAddress:  input.BillingAddress,
		CartSessionID:   input.CartSessionID,
		Notes:           input.Notes,
		Items:           snapshotItems(input.Cart.Items),
	}

	// The number embeds a millisecond timestamp plus a random suffix; a
	// collision is possible under concurrent checkouts, so creation retries
	// with a regenerated number when the unique index rejects it.
	backoff := retry.WithMaxRetries(orderNumberMaxRetries, retry.NewConstant(time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		order.OrderNumber = s.generateOrderNumber()
		if _, err := s.repo.Create(ctx, order); err != nil {
			if db.IsUniqueViolation(err, "order_number") {
				s.metrics.IncOrderNumberCollision()
				return retry.RetryableError(err)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating order")
	}

	s.metrics.IncOrderCreated()
	if s.logger != nil {
		s.logger.Info(s.logger.WithOrderNumber(ctx, order.OrderNumber), "order created")
	}
	return order, nil
}

// GetByNumber loads the order with its line items.
func (s *Service) GetByNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	if strings.TrimSpace(orderNumber) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order number required")
	}
	return s.repo.FindByOrderNumber(ctx, orderNumber)
}

// UpdateStatus overwrites the fulfillment status. Fulfillment transitions are
// operator-driven and not validated against a state machine.
func (s *Service) UpdateStatus(ctx context.Context, orderNumber string, status enums.OrderStatus) error {
	if !status.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid order status %q", status))
	}
	rows, err := s.repo.UpdateFields(ctx, orderNumber, map[string]any{"status": status})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating order status")
	}
	if rows == 0 {
		return pkgerrors.New(pkgerrors.CodeOrderNotFound, "order not found")
	}
	return nil
}

// UpdatePaymentStatus moves the payment status forward. Regressions are
// rejected; repeating the current status is a no-op success.
func (s *Service) UpdatePaymentStatus(ctx context.Context, orderNumber string, status enums.PaymentStatus) error {
	if !status.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid payment status %q", status))
	}
	order, err := s.repo.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		return err
	}
	if !order.PaymentStatus.CanTransitionTo(status) {
		return pkgerrors.New(pkgerrors.CodeConflict,
			fmt.Sprintf("payment status cannot move from %q to %q", order.PaymentStatus, status))
	}
	rows, err := s.repo.UpdateFields(ctx, orderNumber, map[string]any{"payment_status": status})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating payment status")
	}
	if rows == 0 {
		return pkgerrors.New(pkgerrors.CodeOrderNotFound, "order not found")
	}
	return nil
}

// UpdateOrderPayment applies the gateway-confirmed payment fields in a single
// store write. A zero row count surfaces as an error so the caller can flag
// the paid-but-unrecorded case.
func (s *Service) UpdateOrderPayment(ctx context.Context, orderNumber string, update PaymentUpdate) error {
	order, err := s.repo.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		return err
	}
	if !order.PaymentStatus.CanTransitionTo(update.PaymentStatus) {
		return pkgerrors.New(pkgerrors.CodeConflict,
			fmt.Sprintf("payment status cannot move from %q to %q", order.PaymentStatus, update.PaymentStatus))
	}

	fields := map[string]any{
		"payment_status": update.PaymentStatus,
	}
	if update.PaymentIntentID != "" {
		fields["payment_intent_id"] = update.PaymentIntentID
	}
	if update.PaymentEmail != "" {
		fields["payment_email"] = update.PaymentEmail
	}
	if update.PaymentMethod != "" {
		fields["payment_method"] = update.PaymentMethod
	}
	if update.StripeCustomerID != "" {
		fields["stripe_customer_id"] = update.StripeCustomerID
	}
	if !update.PaidAt.IsZero() {
		fields["paid_at"] = update.PaidAt
	}

	rows, err := s.repo.UpdateFields(ctx, orderNumber, fields)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeOrderUpdateFailed, err, "recording payment on order")
	}
	if rows == 0 {
		return pkgerrors.New(pkgerrors.CodeOrderUpdateFailed, "order payment update did not apply")
	}
	return nil
}

func (s *Service) generateOrderNumber() string {
	return fmt.Sprintf("ORD-%d-%03d", s.now().UnixMilli(), s.randInt(1000))
}

func snapshotItems(items []cart.Item) []models.OrderLineItem {
	out := make([]models.OrderLineItem, 0, len(items))
	for _, item := range items {
		out = append(out, models.OrderLineItem{
			ID:              uuid.New(),
			ProductID:       item.ProductID,
			ProductTitle:    item.ProductTitle,
			ProductSlug:     item.ProductSlug,
			SelectedVariant: item.SelectedVariant,
			UnitPrice:       item.UnitPrice,
			Quantity:        item.Quantity,
			UploadedFiles:   item.UploadedFiles,
		})
	}
	return out
}

func validateCustomer(info types.CustomerInfo) error {
	if strings.TrimSpace(info.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer name is required")
	}
	email := strings.TrimSpace(info.Email)
	if email == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer email is not valid").
			WithDetails(map[string]any{"email": email})
	}
	return nil
}

func validateAddresses(shipping types.Address, billing types.BillingAddress) error {
	if missing := shipping.MissingFields(); len(missing) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "shipping address is incomplete").
			WithDetails(map[string]any{"missingFields": missing})
	}
	if !billing.SameAsShipping {
		if missing := billing.MissingFields(); len(missing) > 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "billing address is incomplete").
				WithDetails(map[string]any{"missingFields": missing})
		}
	}
	return nil
}
