package payments

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	stripego "github.com/stripe/stripe-go/v84"

	"github.com/craftline/storefront-backend/internal/orders"
	"github.com/craftline/storefront-backend/pkg/config"
	"github.com/craftline/storefront-backend/pkg/db/models"
	"github.com/craftline/storefront-backend/pkg/enums"
	pkgerrors "github.com/craftline/storefront-backend/pkg/errors"
	"github.com/craftline/storefront-backend/pkg/metrics"
	gateway "github.com/craftline/storefront-backend/pkg/stripe"
	"github.com/craftline/storefront-backend/pkg/types"
)

type stubGateway struct {
	createParams   []gateway.IntentCreateParams
	createErrs     []error
	createResult   *gateway.IntentResult
	retrieveErr    error
	retrieveResult *gateway.PaymentDetails
	customer       *stripego.Customer
	customerErr    error
}

func (g *stubGateway) CreatePaymentIntent(ctx context.Context, params gateway.IntentCreateParams) (*gateway.IntentResult, error) {
	g.createParams = append(g.createParams, params)
	if len(g.createErrs) > 0 {
		err := g.createErrs[0]
		g.createErrs = g.createErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	return g.createResult, nil
}

func (g *stubGateway) RetrieveAndConfirm(ctx context.Context, paymentIntentID string) (*gateway.PaymentDetails, error) {
	if g.retrieveErr != nil {
		return nil, g.retrieveErr
	}
	return g.retrieveResult, nil
}

func (g *stubGateway) CreateOrGetCustomer(ctx context.Context, email, name string) (*stripego.Customer, error) {
	if g.customerErr != nil {
		return nil, g.customerErr
	}
	return g.customer, nil
}

type stubStore struct {
	order     *models.Order
	getErr    error
	updateErr error
	updates   []orders.PaymentUpdate
}

func (s *stubStore) GetByNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.order, nil
}

func (s *stubStore) UpdateOrderPayment(ctx context.Context, orderNumber string, update orders.PaymentUpdate) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.updates = append(s.updates, update)
	return nil
}

func testOrder() *models.Order {
	return &models.Order{
		ID:            uuid.New(),
		OrderNumber:   "ORD-1700000000000-042",
		Status:        enums.OrderStatusPending,
		PaymentStatus: enums.PaymentStatusPending,
		TotalItems:    1,
		TotalAmount:   decimal.RequireFromString("19.99"),
		Currency:      "usd",
		CustomerInfo:  types.CustomerInfo{Name: "Ada Lovelace", Email: "ada@example.com"},
	}
}

func newTestService(store OrderStore, gw Gateway) *Service {
	cfg := config.PaymentConfig{Currency: "usd", GatewayRetries: 2, GatewayTimeout: time.Second}
	return NewService(store, gw, cfg, nil, metrics.NewPaymentMetrics(nil))
}

func TestCreateIntentConvertsToMinorUnits(t *testing.T) {
	store := &stubStore{order: testOrder()}
	gw := &stubGateway{createResult: &gateway.IntentResult{ClientSecret: "pi_1_secret", PaymentIntentID: "pi_1"}}
	svc := newTestService(store, gw)

	resp, err := svc.CreateIntent(context.Background(), "ORD-1700000000000-042", "")
	require.NoError(t, err)

	assert.True(t, resp.Amount.Equal(decimal.RequireFromString("19.99")))
	assert.Equal(t, "usd", resp.Currency)
	assert.Equal(t, "pi_1_secret", resp.ClientSecret)
	assert.Equal(t, "pi_1", resp.PaymentIntentID)

	require.Len(t, gw.createParams, 1)
	assert.Equal(t, int64(1999), gw.createParams[0].AmountMinorUnits)
	assert.Equal(t, "ada@example.com", gw.createParams[0].CustomerEmail)
	assert.Equal(t, "ORD-1700000000000-042", gw.createParams[0].OrderNumber)

	// Nothing is written to the order at intent time.
	assert.Empty(t, store.updates)
}

func TestCreateIntentEmailOverride(t *testing.T) {
	store := &stubStore{order: testOrder()}
	gw := &stubGateway{createResult: &gateway.IntentResult{PaymentIntentID: "pi_1"}}
	svc := newTestService(store, gw)

	_, err := svc.CreateIntent(context.Background(), "ORD-1700000000000-042", "other@example.com")
	require.NoError(t, err)
	require.Len(t, gw.createParams, 1)
	assert.Equal(t, "other@example.com", gw.createParams[0].CustomerEmail)
}

func TestCreateIntentOrderNotFound(t *testing.T) {
	store := &stubStore{getErr: pkgerrors.New(pkgerrors.CodeOrderNotFound, "order not found")}
	svc := newTestService(store, &stubGateway{})

	_, err := svc.CreateIntent(context.Background(), "ORD-0-000", "")
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeOrderNotFound))
}

func TestCreateIntentRetriesTransientGatewayErrors(t *testing.T) {
	store := &stubStore{order: testOrder()}
	gw := &stubGateway{
		createErrs:   []error{pkgerrors.New(pkgerrors.CodeDependency, "gateway unavailable")},
		createResult: &gateway.IntentResult{PaymentIntentID: "pi_1"},
	}
	svc := newTestService(store, gw)

	resp, err := svc.CreateIntent(context.Background(), "ORD-1700000000000-042", "")
	require.NoError(t, err)
	assert.Equal(t, "pi_1", resp.PaymentIntentID)
	assert.Len(t, gw.createParams, 2)
}

func TestCreateIntentDoesNotRetryValidationErrors(t *testing.T) {
	store := &stubStore{order: testOrder()}
	gw := &stubGateway{
		createErrs: []error{
			pkgerrors.New(pkgerrors.CodeValidation, "bad request"),
			pkgerrors.New(pkgerrors.CodeValidation, "bad request"),
		},
	}
	svc := newTestService(store, gw)

	_, err := svc.CreateIntent(context.Background(), "ORD-1700000000000-042", "")
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
	assert.Len(t, gw.createParams, 1)
}

func confirmedDetails() *gateway.PaymentDetails {
	return &gateway.PaymentDetails{
		PaymentIntentID: "pi_1",
		CustomerEmail:   "ada@example.com",
		PaymentMethodID: "pm_9",
		AmountReceived:  1999,
		Currency:        "usd",
		CreatedAt:       time.UnixMilli(1700000005000).UTC(),
	}
}

func TestConfirmRecordsGatewayReportedFields(t *testing.T) {
	store := &stubStore{order: testOrder()}
	gw := &stubGateway{
		retrieveResult: confirmedDetails(),
		customer:       &stripego.Customer{ID: "cus_7"},
	}
	svc := newTestService(store, gw)

	resp, err := svc.Confirm(context.Background(), "pi_1", "ORD-1700000000000-042")
	require.NoError(t, err)
	assert.Equal(t, enums.PaymentStatusPaid, resp.PaymentStatus)
	assert.Equal(t, "pi_1", resp.PaymentIntentID)
	assert.Equal(t, time.UnixMilli(1700000005000).UTC(), resp.PaidAt)

	require.Len(t, store.updates, 1)
	update := store.updates[0]
	assert.Equal(t, enums.PaymentStatusPaid, update.PaymentStatus)
	assert.Equal(t, "pi_1", update.PaymentIntentID)
	assert.Equal(t, "ada@example.com", update.PaymentEmail)
	assert.Equal(t, "pm_9", update.PaymentMethod)
	assert.Equal(t, "cus_7", update.StripeCustomerID)
	assert.Equal(t, time.UnixMilli(1700000005000).UTC(), update.PaidAt)
}

func TestConfirmPropagatesNotCompleted(t *testing.T) {
	store := &stubStore{order: testOrder()}
	gw := &stubGateway{retrieveErr: pkgerrors.New(pkgerrors.CodePaymentNotCompleted, "payment not completed")}
	svc := newTestService(store, gw)

	_, err := svc.Confirm(context.Background(), "pi_1", "ORD-1700000000000-042")
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodePaymentNotCompleted))
	assert.Empty(t, store.updates)
}

func TestConfirmSurfacesUpdateFailure(t *testing.T) {
	store := &stubStore{
		order:     testOrder(),
		updateErr: pkgerrors.New(pkgerrors.CodeOrderUpdateFailed, "order payment update did not apply"),
	}
	gw := &stubGateway{retrieveResult: confirmedDetails(), customer: &stripego.Customer{ID: "cus_7"}}
	svc := newTestService(store, gw)

	_, err := svc.Confirm(context.Background(), "pi_1", "ORD-1700000000000-042")
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeOrderUpdateFailed))
}

func TestConfirmIsIdempotent(t *testing.T) {
	order := testOrder()
	store := &stubStore{order: order}
	gw := &stubGateway{retrieveResult: confirmedDetails(), customer: &stripego.Customer{ID: "cus_7"}}
	svc := newTestService(store, gw)

	first, err := svc.Confirm(context.Background(), "pi_1", order.OrderNumber)
	require.NoError(t, err)

	order.PaymentStatus = enums.PaymentStatusPaid
	second, err := svc.Confirm(context.Background(), "pi_1", order.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, first.PaidAt, second.PaidAt)
	assert.Equal(t, first.PaymentIntentID, second.PaymentIntentID)
	assert.Len(t, store.updates, 2)
	assert.Equal(t, store.updates[0], store.updates[1])
}

func TestConfirmFallsBackToOrderEmail(t *testing.T) {
	store := &stubStore{order: testOrder()}
	details := confirmedDetails()
	details.CustomerEmail = ""
	gw := &stubGateway{retrieveResult: details, customer: &stripego.Customer{ID: "cus_7"}}
	svc := newTestService(store, gw)

	_, err := svc.Confirm(context.Background(), "pi_1", "ORD-1700000000000-042")
	require.NoError(t, err)
	require.Len(t, store.updates, 1)
	assert.Equal(t, "ada@example.com", store.updates[0].PaymentEmail)
}

func TestConfirmCustomerFailureIsNonFatal(t *testing.T) {
	store := &stubStore{order: testOrder()}
	gw := &stubGateway{
		retrieveResult: confirmedDetails(),
		customerErr:    pkgerrors.New(pkgerrors.CodeDependency, "customer api down"),
	}
	svc := newTestService(store, gw)

	_, err := svc.Confirm(context.Background(), "pi_1", "ORD-1700000000000-042")
	require.NoError(t, err)
	require.Len(t, store.updates, 1)
	assert.Empty(t, store.updates[0].StripeCustomerID)
}

func TestStatusReportsPaymentView(t *testing.T) {
	order := testOrder()
	paidAt := time.UnixMilli(1700000005000).UTC()
	intentID := "pi_1"
	order.PaymentStatus = enums.PaymentStatusPaid
	order.PaidAt = &paidAt
	order.PaymentIntentID = &intentID
	store := &stubStore{order: order}
	svc := newTestService(store, &stubGateway{})

	resp, err := svc.Status(context.Background(), order.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, order.OrderNumber, resp.OrderNumber)
	assert.Equal(t, "pi_1", resp.PaymentIntentID)
	assert.True(t, resp.IsPaid)
	require.NotNil(t, resp.PaidAt)
	assert.Equal(t, paidAt, *resp.PaidAt)
	assert.True(t, resp.TotalAmount.Equal(decimal.RequireFromString("19.99")))
}

func TestToMinorUnits(t *testing.T) {
	tests := []struct {
		amount string
		want   int64
	}{
		{"19.99", 1999},
		{"0.01", 1},
		{"100", 10000},
		{"10.005", 1001},
		{"10.014", 1001},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, toMinorUnits(decimal.RequireFromString(tc.amount)), tc.amount)
	}
}
