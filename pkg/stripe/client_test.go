package stripe

import (
	"context"
	"net/http"
	"testing"

	stripego "github.com/stripe/stripe-go/v84"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/craftline/storefront-backend/pkg/config"
	pkgerrors "github.com/craftline/storefront-backend/pkg/errors"
)

func TestNewClientValidatesKeyAgainstEnv(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.StripeConfig
		wantErr bool
	}{
		{"test env with test key", config.StripeConfig{APIKey: "sk_test_abc", Env: "test"}, false},
		{"test env with live key", config.StripeConfig{APIKey: "sk_live_abc", Env: "test"}, true},
		{"live env with live key", config.StripeConfig{APIKey: "sk_live_abc", Env: "live"}, false},
		{"live env with test key", config.StripeConfig{APIKey: "sk_test_abc", Env: "live"}, true},
		{"missing key", config.StripeConfig{Env: "test"}, true},
		{"bad env", config.StripeConfig{APIKey: "sk_test_abc", Env: "staging"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client, err := NewClient(context.Background(), tc.cfg, nil)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, client)
		})
	}
}

func TestIntentCreateParamsValidate(t *testing.T) {
	valid := IntentCreateParams{
		AmountMinorUnits: 1999,
		Currency:         "usd",
		OrderNumber:      "ORD-1700000000000-042",
		OrderID:          "7",
		CustomerEmail:    "buyer@example.com",
	}
	assert.NoError(t, valid.validate())

	zeroAmount := valid
	zeroAmount.AmountMinorUnits = 0
	assert.Error(t, zeroAmount.validate())

	noCurrency := valid
	noCurrency.Currency = ""
	assert.Error(t, noCurrency.validate())

	noOrder := valid
	noOrder.OrderNumber = ""
	assert.Error(t, noOrder.validate())
}

func TestToStripeParamsCarriesOrderMetadata(t *testing.T) {
	p := IntentCreateParams{
		AmountMinorUnits: 5000,
		Currency:         "usd",
		OrderNumber:      "ORD-1700000000000-123",
		OrderID:          "41",
		CustomerEmail:    "buyer@example.com",
	}

	params := p.toStripeParams(context.Background())
	require.NotNil(t, params.Amount)
	assert.Equal(t, int64(5000), *params.Amount)
	assert.Equal(t, "usd", *params.Currency)
	assert.Equal(t, "Payment for order ORD-1700000000000-123", *params.Description)
	assert.Equal(t, "buyer@example.com", *params.ReceiptEmail)
	require.NotNil(t, params.AutomaticPaymentMethods)
	assert.True(t, *params.AutomaticPaymentMethods.Enabled)
	assert.Equal(t, "ORD-1700000000000-123", params.Metadata[metadataOrderNumber])
	assert.Equal(t, "41", params.Metadata[metadataOrderID])
	assert.Equal(t, "buyer@example.com", params.Metadata[metadataCustomerEmail])
}

func TestMapStripeErrorClassifiesByStatus(t *testing.T) {
	c := &Client{}

	notFound := &stripego.Error{HTTPStatusCode: http.StatusNotFound}
	assert.True(t, pkgerrors.HasCode(c.mapStripeError(notFound, "retrieve payment intent"), pkgerrors.CodeNotFound))

	rateLimited := &stripego.Error{HTTPStatusCode: http.StatusTooManyRequests}
	assert.True(t, pkgerrors.HasCode(c.mapStripeError(rateLimited, "create payment intent"), pkgerrors.CodeDependency))

	badRequest := &stripego.Error{HTTPStatusCode: http.StatusBadRequest}
	assert.True(t, pkgerrors.HasCode(c.mapStripeError(badRequest, "create payment intent"), pkgerrors.CodeValidation))

	outage := &stripego.Error{HTTPStatusCode: http.StatusBadGateway}
	assert.True(t, pkgerrors.HasCode(c.mapStripeError(outage, "create payment intent"), pkgerrors.CodeDependency))

	assert.True(t, pkgerrors.HasCode(c.mapStripeError(assert.AnError, "create payment intent"), pkgerrors.CodeDependency))
}
