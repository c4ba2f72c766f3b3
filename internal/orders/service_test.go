package orders

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/craftline/storefront-backend/internal/cart"
	"github.com/craftline/storefront-backend/pkg/db/models"
	"github.com/craftline/storefront-backend/pkg/enums"
	pkgerrors "github.com/craftline/storefront-backend/pkg/errors"
	"github.com/craftline/storefront-backend/pkg/metrics"
	"github.com/craftline/storefront-backend/pkg/types"
)

type stubRepo struct {
	byNumber   map[string]*models.Order
	createErr  error
	updateErr  error
	updateRows int64
	updates    []map[string]any
}

func newStubRepo() *stubRepo {
	return &stubRepo{byNumber: map[string]*models.Order{}, updateRows: 1}
}

func (r *stubRepo) WithTx(tx *gorm.DB) Repository { return r }

func (r *stubRepo) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if r.createErr != nil {
		err := r.createErr
		r.createErr = nil
		return nil, err
	}
	if _, exists := r.byNumber[order.OrderNumber]; exists {
		return nil, errors.New("UNIQUE constraint failed: orders.order_number")
	}
	r.byNumber[order.OrderNumber] = order
	return order, nil
}

func (r *stubRepo) FindByOrderNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	order, ok := r.byNumber[orderNumber]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeOrderNotFound, "order not found")
	}
	return order, nil
}

func (r *stubRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	for _, order := range r.byNumber {
		if order.ID == id {
			return order, nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeOrderNotFound, "order not found")
}

func (r *stubRepo) UpdateFields(ctx context.Context, orderNumber string, fields map[string]any) (int64, error) {
	if r.updateErr != nil {
		return 0, r.updateErr
	}
	r.updates = append(r.updates, fields)
	if _, ok := r.byNumber[orderNumber]; !ok {
		return 0, nil
	}
	return r.updateRows, nil
}

func newTestService(repo Repository) *Service {
	svc := NewService(repo, nil, metrics.NewPaymentMetrics(nil))
	svc.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return svc
}

func validInput() CreateOrderInput {
	c := &cart.Cart{}
	c.AddItem(cart.Item{
		ProductID:    11,
		ProductTitle: "Mug",
		ProductSlug:  "mug",
		UnitPrice:    decimal.RequireFromString("19.99"),
		Quantity:     2,
	})
	return CreateOrderInput{
		Cart:         c,
		CustomerInfo: types.CustomerInfo{Name: "Ada Lovelace", Email: "ada@example.com"},
		ShippingAddress: types.Address{
			Street: "1 Analytical Way", City: "London", State: "LDN",
			PostalCode: "EC1A", Country: "GB",
		},
		BillingAddress: types.BillingAddress{SameAsShipping: true},
	}
}

func TestCreateFromCartRejectsEmptyCart(t *testing.T) {
	svc := newTestService(newStubRepo())

	_, err := svc.CreateFromCart(context.Background(), CreateOrderInput{Cart: &cart.Cart{}})
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeEmptyCart))

	_, err = svc.CreateFromCart(context.Background(), CreateOrderInput{})
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeEmptyCart))
}

func TestCreateFromCartValidation(t *testing.T) {
	svc := newTestService(newStubRepo())

	tests := []struct {
		name   string
		mutate func(*CreateOrderInput)
	}{
		{"missing name", func(in *CreateOrderInput) { in.CustomerInfo.Name = "" }},
		{"missing email", func(in *CreateOrderInput) { in.CustomerInfo.Email = "" }},
		{"malformed email", func(in *CreateOrderInput) { in.CustomerInfo.Email = "not-an-email" }},
		{"missing shipping street", func(in *CreateOrderInput) { in.ShippingAddress.Street = "" }},
		{"missing shipping country", func(in *CreateOrderInput) { in.ShippingAddress.Country = "" }},
		{"billing required when different", func(in *CreateOrderInput) {
			in.BillingAddress = types.BillingAddress{SameAsShipping: false}
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			input := validInput()
			tc.mutate(&input)
			_, err := svc.CreateFromCart(context.Background(), input)
			require.Error(t, err)
			assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
		})
	}
}

func TestCreateFromCartSnapshotsCart(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(repo)
	input := validInput()

	order, err := svc.CreateFromCart(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, enums.OrderStatusPending, order.Status)
	assert.Equal(t, enums.PaymentStatusPending, order.PaymentStatus)
	assert.Equal(t, 2, order.TotalItems)
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("39.98")))
	assert.Equal(t, "usd", order.Currency)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Mug", order.Items[0].ProductTitle)
	assert.True(t, order.Items[0].UnitPrice.Equal(decimal.RequireFromString("19.99")))

	// Mutating the cart afterwards must not reach the stored snapshot.
	input.Cart.SetQuantity(input.Cart.Items[0].Key, 9)
	stored := repo.byNumber[order.OrderNumber]
	assert.Equal(t, 2, stored.Items[0].Quantity)
	assert.Equal(t, 2, stored.TotalItems)
}

func TestCreateFromCartOrderNumberFormat(t *testing.T) {
	svc := newTestService(newStubRepo())

	order, err := svc.CreateFromCart(context.Background(), validInput())
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^ORD-\d+-\d{3}$`), order.OrderNumber)
	assert.Contains(t, order.OrderNumber, "ORD-1700000000000-")
}

func TestCreateFromCartRetriesOnCollision(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(repo)

	suffixes := []int{7, 7, 42}
	svc.randInt = func(n int) int {
		next := suffixes[0]
		if len(suffixes) > 1 {
			suffixes = suffixes[1:]
		}
		return next
	}

	first, err := svc.CreateFromCart(context.Background(), validInput())
	require.NoError(t, err)
	assert.Equal(t, "ORD-1700000000000-007", first.OrderNumber)

	second, err := svc.CreateFromCart(context.Background(), validInput())
	require.NoError(t, err)
	assert.Equal(t, "ORD-1700000000000-042", second.OrderNumber)
	assert.Len(t, repo.byNumber, 2)
}

func TestUpdatePaymentStatusTransitions(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(repo)

	order, err := svc.CreateFromCart(context.Background(), validInput())
	require.NoError(t, err)

	require.NoError(t, svc.UpdatePaymentStatus(context.Background(), order.OrderNumber, enums.PaymentStatusPaid))

	// The stub does not apply updates, so force the state for the next step.
	order.PaymentStatus = enums.PaymentStatusPaid
	err = svc.UpdatePaymentStatus(context.Background(), order.OrderNumber, enums.PaymentStatusPending)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeConflict))

	// Re-applying the current status is allowed.
	require.NoError(t, svc.UpdatePaymentStatus(context.Background(), order.OrderNumber, enums.PaymentStatusPaid))
}

func TestUpdateOrderPaymentFailureSurfacesAsUpdateFailed(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(repo)

	order, err := svc.CreateFromCart(context.Background(), validInput())
	require.NoError(t, err)

	repo.updateRows = 0
	err = svc.UpdateOrderPayment(context.Background(), order.OrderNumber, PaymentUpdate{
		PaymentStatus:   enums.PaymentStatusPaid,
		PaymentIntentID: "pi_123",
		PaidAt:          time.Now(),
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeOrderUpdateFailed))
}

func TestUpdateOrderPaymentWritesSingleFieldMap(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(repo)

	order, err := svc.CreateFromCart(context.Background(), validInput())
	require.NoError(t, err)

	paidAt := time.UnixMilli(1700000005000).UTC()
	require.NoError(t, svc.UpdateOrderPayment(context.Background(), order.OrderNumber, PaymentUpdate{
		PaymentStatus:   enums.PaymentStatusPaid,
		PaymentIntentID: "pi_123",
		PaymentEmail:    "ada@example.com",
		PaymentMethod:   "pm_456",
		PaidAt:          paidAt,
	}))

	require.Len(t, repo.updates, 1)
	fields := repo.updates[0]
	assert.Equal(t, enums.PaymentStatusPaid, fields["payment_status"])
	assert.Equal(t, "pi_123", fields["payment_intent_id"])
	assert.Equal(t, "ada@example.com", fields["payment_email"])
	assert.Equal(t, "pm_456", fields["payment_method"])
	assert.Equal(t, paidAt, fields["paid_at"])
	assert.NotContains(t, fields, "stripe_customer_id")
}
