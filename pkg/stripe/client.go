package stripe

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v84"
	"github.com/stripe/stripe-go/v84/customer"
	"github.com/stripe/stripe-go/v84/paymentintent"

	"github.com/craftline/storefront-backend/pkg/config"
	pkgerrors "github.com/craftline/storefront-backend/pkg/errors"
	"github.com/craftline/storefront-backend/pkg/logger"
)

const (
	testEnv = "test"
	liveEnv = "live"
)

var (
	errAPIKeyRequired   = errors.New("stripe api key is required")
	errInvalidStripeEnv = fmt.Errorf("stripe environment must be %q or %q", testEnv, liveEnv)
)

// Client wraps the Stripe primitives the storefront needs: payment intents
// and customers, with centralized logging and error mapping.
type Client struct {
	environment string
	logger      *logger.Logger
}

// NewClient initializes Stripe once with the configured secret and env.
func NewClient(ctx context.Context, cfg config.StripeConfig, logg *logger.Logger) (*Client, error) {
	env, err := normalizeEnv(cfg.Environment())
	if err != nil {
		return nil, err
	}

	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errAPIKeyRequired
	}

	if err := validateAPIKey(env, apiKey); err != nil {
		return nil, err
	}

	stripe.Key = apiKey

	if logg != nil {
		logg.Info(ctx, fmt.Sprintf("stripe client initialized (%s)", env))
	}

	return &Client{environment: env, logger: logg}, nil
}

// Environment reports the normalized Stripe environment in use.
func (c *Client) Environment() string {
	if c == nil {
		return ""
	}
	return c.environment
}

// CreatePaymentIntent mints a new intent for the given order amount. Amount is
// in the gateway's minor unit (cents). Order metadata is attached for
// reconciliation.
func (c *Client) CreatePaymentIntent(ctx context.Context, params IntentCreateParams) (*IntentResult, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	c.log(ctx, "request", "create_payment_intent", map[string]any{
		"order_number": params.OrderNumber,
		"amount":       params.AmountMinorUnits,
		"currency":     params.Currency,
	})

	intent, err := paymentintent.New(params.toStripeParams(ctx))
	if err != nil {
		c.log(ctx, "error", "create_payment_intent", map[string]any{"error": err.Error()})
		return nil, c.mapStripeError(err, "create payment intent")
	}

	c.log(ctx, "response", "create_payment_intent", map[string]any{
		"payment_intent_id": intent.ID,
		"status":            string(intent.Status),
	})
	return &IntentResult{
		ClientSecret:    intent.ClientSecret,
		PaymentIntentID: intent.ID,
	}, nil
}

// RetrieveAndConfirm fetches the intent from Stripe and requires its status to
// be "succeeded". The gateway's view is authoritative; client-reported success
// is never trusted on its own.
func (c *Client) RetrieveAndConfirm(ctx context.Context, paymentIntentID string) (*PaymentDetails, error) {
	if strings.TrimSpace(paymentIntentID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment intent id required")
	}

	c.log(ctx, "request", "retrieve_payment_intent", map[string]any{"payment_intent_id": paymentIntentID})

	intent, err := paymentintent.Get(paymentIntentID, &stripe.PaymentIntentParams{
		Params: stripe.Params{Context: ctx},
	})
	if err != nil {
		c.log(ctx, "error", "retrieve_payment_intent", map[string]any{"error": err.Error()})
		return nil, c.mapStripeError(err, "retrieve payment intent")
	}

	if intent.Status != stripe.PaymentIntentStatusSucceeded {
		c.log(ctx, "response", "retrieve_payment_intent", map[string]any{
			"payment_intent_id": intent.ID,
			"status":            string(intent.Status),
		})
		return nil, pkgerrors.New(pkgerrors.CodePaymentNotCompleted,
			fmt.Sprintf("payment not completed, status %q", intent.Status)).
			WithDetails(map[string]any{"status": string(intent.Status)})
	}

	details := &PaymentDetails{
		PaymentIntentID: intent.ID,
		CustomerEmail:   intent.ReceiptEmail,
		AmountReceived:  intent.AmountReceived,
		Currency:        string(intent.Currency),
		CreatedAt:       time.Unix(intent.Created, 0).UTC(),
		Metadata:        intent.Metadata,
	}
	if details.CustomerEmail == "" && intent.Metadata != nil {
		details.CustomerEmail = intent.Metadata[metadataCustomerEmail]
	}
	if intent.PaymentMethod != nil {
		details.PaymentMethodID = intent.PaymentMethod.ID
	}

	c.log(ctx, "response", "retrieve_payment_intent", map[string]any{
		"payment_intent_id": intent.ID,
		"status":            string(intent.Status),
	})
	return details, nil
}

// CreateOrGetCustomer finds the customer by email, creating one when absent.
// Lookup-first keeps repeat buyers from accumulating duplicate records.
func (c *Client) CreateOrGetCustomer(ctx context.Context, email, name string) (*stripe.Customer, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer email required")
	}

	c.log(ctx, "request", "find_customer", map[string]any{"email": email})

	iter := customer.List(&stripe.CustomerListParams{
		ListParams: stripe.ListParams{Context: ctx, Limit: stripe.Int64(1)},
		Email:      stripe.String(email),
	})
	for iter.Next() {
		existing := iter.Customer()
		c.log(ctx, "response", "find_customer", map[string]any{"customer_id": existing.ID})
		return existing, nil
	}
	if err := iter.Err(); err != nil {
		c.log(ctx, "error", "find_customer", map[string]any{"error": err.Error()})
		return nil, c.mapStripeError(err, "list customers")
	}

	params := &stripe.CustomerParams{
		Params: stripe.Params{Context: ctx},
		Email:  stripe.String(email),
	}
	if strings.TrimSpace(name) != "" {
		params.Name = stripe.String(name)
	}

	created, err := customer.New(params)
	if err != nil {
		c.log(ctx, "error", "create_customer", map[string]any{"error": err.Error()})
		return nil, c.mapStripeError(err, "create customer")
	}

	c.log(ctx, "response", "create_customer", map[string]any{"customer_id": created.ID})
	return created, nil
}

func (c *Client) log(ctx context.Context, phase, op string, fields map[string]any) {
	if c == nil || c.logger == nil {
		return
	}
	logFields := map[string]any{
		"operation": op,
		"phase":     phase,
	}
	for k, v := range fields {
		logFields[k] = c.redact(k, v)
	}
	ctx = c.logger.WithFields(ctx, logFields)
	switch phase {
	case "error":
		c.logger.Error(ctx, fmt.Sprintf("stripe %s", op), errors.New(fmt.Sprint(fields["error"])))
	default:
		c.logger.Info(ctx, fmt.Sprintf("stripe %s", phase))
	}
}

func (c *Client) redact(key string, value any) any {
	lower := strings.ToLower(key)
	for _, sensitive := range []string{"secret", "email", "card", "phone"} {
		if strings.Contains(lower, sensitive) {
			return "[REDACTED]"
		}
	}
	return value
}

func (c *Client) mapStripeError(err error, op string) error {
	if err == nil {
		return nil
	}
	var apiErr *stripe.Error
	if errors.As(err, &apiErr) {
		return pkgerrors.Wrap(domainCodeForStatus(apiErr.HTTPStatusCode), err,
			fmt.Sprintf("stripe %s failed", op))
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("stripe %s failed", op))
}

func domainCodeForStatus(status int) pkgerrors.Code {
	switch {
	case status == http.StatusNotFound:
		return pkgerrors.CodeNotFound
	case status == http.StatusTooManyRequests:
		return pkgerrors.CodeDependency
	case status >= http.StatusInternalServerError:
		return pkgerrors.CodeDependency
	case status >= http.StatusBadRequest:
		return pkgerrors.CodeValidation
	default:
		return pkgerrors.CodeDependency
	}
}

func normalizeEnv(raw string) (string, error) {
	env := strings.TrimSpace(strings.ToLower(raw))
	if env == "" {
		env = testEnv
	}
	switch env {
	case testEnv, liveEnv:
		return env, nil
	default:
		return "", errInvalidStripeEnv
	}
}

func validateAPIKey(env, key string) error {
	switch env {
	case testEnv:
		if strings.HasPrefix(key, "sk_test") || strings.HasPrefix(key, "rk_test") {
			return nil
		}
		return fmt.Errorf("stripe environment %q requires a test secret key (sk_test/rk_test)", testEnv)
	case liveEnv:
		if strings.HasPrefix(key, "sk_live") || strings.HasPrefix(key, "rk_live") {
			return nil
		}
		return fmt.Errorf("stripe environment %q requires a live secret key (sk_live/rk_live)", liveEnv)
	default:
		return errInvalidStripeEnv
	}
}
