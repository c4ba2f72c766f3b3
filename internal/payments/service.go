package payments

import (
	"context"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/shopspring/decimal"

	"github.com/craftline/storefront-backend/internal/orders"
	"github.com/craftline/storefront-backend/pkg/config"
	"github.com/craftline/storefront-backend/pkg/db/models"
	"github.com/craftline/storefront-backend/pkg/enums"
	pkgerrors "github.com/craftline/storefront-backend/pkg/errors"
	"github.com/craftline/storefront-backend/pkg/logger"
	"github.com/craftline/storefront-backend/pkg/metrics"
	gateway "github.com/craftline/storefront-backend/pkg/stripe"
)

var minorUnitFactor = decimal.NewFromInt(100)

// Service orchestrates the payment flow between the order store and the
// gateway. The gateway is the sole authority on whether money moved; this
// service only reconciles that answer back into order state.
type Service struct {
	store   OrderStore
	gateway Gateway
	cfg     config.PaymentConfig
	logger  *logger.Logger
	metrics *metrics.PaymentMetrics
}

// NewService wires the payment orchestration service.
func NewService(store OrderStore, gw Gateway, cfg config.PaymentConfig, logg *logger.Logger, m *metrics.PaymentMetrics) *Service {
	return &Service{store: store, gateway: gw, cfg: cfg, logger: logg, metrics: m}
}

// CreateIntent mints a payment intent for an existing order. The amount comes
// from the order's frozen total, converted to minor units at this edge only.
// The order row is not touched; the intent is linked up at confirmation time.
func (s *Service) CreateIntent(ctx context.Context, orderNumber, emailOverride string) (*IntentResponse, error) {
	order, err := s.store.GetByNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}

	email := strings.TrimSpace(emailOverride)
	if email == "" {
		email = order.CustomerInfo.Email
	}

	amount := toMinorUnits(order.TotalAmount)
	currency := order.Currency
	if currency == "" {
		currency = s.cfg.Currency
	}

	params := gateway.IntentCreateParams{
		AmountMinorUnits: amount,
		Currency:         currency,
		OrderNumber:      order.OrderNumber,
		OrderID:          order.ID.String(),
		CustomerEmail:    email,
	}

	started := time.Now()
	var result *gateway.IntentResult
	err = s.withGatewayRetry(ctx, func(ctx context.Context) error {
		var gwErr error
		result, gwErr = s.gateway.CreatePaymentIntent(ctx, params)
		return gwErr
	})
	s.metrics.ObserveGatewayDuration("create_payment_intent", time.Since(started))
	if err != nil {
		s.metrics.IncIntentCreated("error")
		return nil, err
	}
	s.metrics.IncIntentCreated("success")

	return &IntentResponse{
		ClientSecret:    result.ClientSecret,
		PaymentIntentID: result.PaymentIntentID,
		Amount:          order.TotalAmount,
		Currency:        currency,
		OrderNumber:     order.OrderNumber,
	}, nil
}

// Confirm asks the gateway for the intent's state and, only if it succeeded,
// records the payment on the order. Repeating a confirmation converges to the
// same stored state.
func (s *Service) Confirm(ctx context.Context, paymentIntentID, orderNumber string) (*ConfirmResponse, error) {
	started := time.Now()
	var details *gateway.PaymentDetails
	err := s.withGatewayRetry(ctx, func(ctx context.Context) error {
		var gwErr error
		details, gwErr = s.gateway.RetrieveAndConfirm(ctx, paymentIntentID)
		return gwErr
	})
	s.metrics.ObserveGatewayDuration("retrieve_payment_intent", time.Since(started))
	if err != nil {
		s.metrics.IncConfirmation("not_completed")
		return nil, err
	}

	order, err := s.store.GetByNumber(ctx, orderNumber)
	if err != nil {
		s.metrics.IncConfirmation("order_not_found")
		return nil, err
	}

	paymentEmail := details.CustomerEmail
	if paymentEmail == "" {
		paymentEmail = order.CustomerInfo.Email
	}
	update := orders.PaymentUpdate{
		PaymentStatus:   enums.PaymentStatusPaid,
		PaymentIntentID: details.PaymentIntentID,
		PaymentEmail:    paymentEmail,
		PaymentMethod:   details.PaymentMethodID,
		PaidAt:          details.CreatedAt,
	}
	if customerID := s.ensureCustomer(ctx, order); customerID != "" {
		update.StripeCustomerID = customerID
	}

	if err := s.store.UpdateOrderPayment(ctx, orderNumber, update); err != nil {
		// The gateway took the money but the order row does not reflect it.
		// This is the one state that needs human attention, so it gets its
		// own code, counter, and log line.
		s.metrics.IncConfirmation("update_failed")
		s.metrics.IncReconciliationFailure()
		if s.logger != nil {
			fields := map[string]any{
				"payment_intent_id": details.PaymentIntentID,
				"order_number":      orderNumber,
			}
			s.logger.Error(s.logger.WithFields(ctx, fields), "payment received but order update failed", err)
		}
		if pkgerrors.HasCode(err, pkgerrors.CodeOrderUpdateFailed) {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeOrderUpdateFailed, err, "recording payment on order")
	}

	s.metrics.IncConfirmation("success")
	return &ConfirmResponse{
		OrderNumber:     orderNumber,
		PaymentStatus:   enums.PaymentStatusPaid,
		PaymentIntentID: details.PaymentIntentID,
		PaidAt:          details.CreatedAt,
	}, nil
}

// Status returns the payment view of an order without touching the gateway.
func (s *Service) Status(ctx context.Context, orderNumber string) (*StatusResponse, error) {
	order, err := s.store.GetByNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	return statusFromOrder(order), nil
}

// ensureCustomer is best effort: a failure here must never fail the payment.
func (s *Service) ensureCustomer(ctx context.Context, order *models.Order) string {
	if order.StripeCustomerID != nil && *order.StripeCustomerID != "" {
		return *order.StripeCustomerID
	}
	email := strings.TrimSpace(order.CustomerInfo.Email)
	if email == "" {
		return ""
	}
	cust, err := s.gateway.CreateOrGetCustomer(ctx, email, order.CustomerInfo.Name)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn(s.logger.WithOrderNumber(ctx, order.OrderNumber), "customer lookup failed, continuing without")
		}
		return ""
	}
	return cust.ID
}

func (s *Service) withGatewayRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	retries := s.cfg.GatewayRetries
	if retries == 0 {
		retries = 1
	}
	backoff := retry.WithMaxRetries(retries, retry.NewExponential(250*time.Millisecond))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		callCtx := ctx
		if s.cfg.GatewayTimeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, s.cfg.GatewayTimeout)
			defer cancel()
		}
		err := fn(callCtx)
		if err == nil {
			return nil
		}
		if pkgerrors.HasCode(err, pkgerrors.CodeDependency) {
			return retry.RetryableError(err)
		}
		return err
	})
}

func toMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(minorUnitFactor).Round(0).IntPart()
}

func statusFromOrder(order *models.Order) *StatusResponse {
	intentID := ""
	if order.PaymentIntentID != nil {
		intentID = *order.PaymentIntentID
	}
	return &StatusResponse{
		OrderNumber:     order.OrderNumber,
		Status:          order.Status,
		PaymentStatus:   order.PaymentStatus,
		PaymentIntentID: intentID,
		TotalAmount:     order.TotalAmount,
		Currency:        order.Currency,
		IsPaid:          order.PaymentStatus == enums.PaymentStatusPaid,
		PaidAt:          order.PaidAt,
	}
}
