package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/craftline/storefront-backend/pkg/enums"
	"github.com/craftline/storefront-backend/pkg/types"
)

// Order is the persisted snapshot of a successful checkout submission.
// OrderNumber is the only business key exposed outside the API; totals are
// frozen at creation and never recomputed from catalog state.
type Order struct {
	ID               uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNumber      string               `gorm:"column:order_number;uniqueIndex;not null"`
	Status           enums.OrderStatus    `gorm:"column:status;not null;default:'pending'"`
	PaymentStatus    enums.PaymentStatus  `gorm:"column:payment_status;not null;default:'pending'"`
	TotalItems       int                  `gorm:"column:total_items;not null"`
	TotalAmount      decimal.Decimal      `gorm:"column:total_amount;type:numeric(12,2);not null"`
	Currency         string               `gorm:"column:currency;not null;default:'usd'"`
	CustomerInfo     types.CustomerInfo   `gorm:"column:customer_info;type:jsonb;serializer:json"`
	ShippingAddress  types.Address        `gorm:"column:shipping_address;type:jsonb;serializer:json"`
	BillingAddress   types.BillingAddress `gorm:"column:billing_address;type:jsonb;serializer:json"`
	CartSessionID    *string              `gorm:"column:cart_session_id"`
	PaymentIntentID  *string              `gorm:"column:payment_intent_id"`
	PaymentEmail     *string              `gorm:"column:payment_email"`
	PaymentMethod    *string              `gorm:"column:payment_method"`
	StripeCustomerID *string              `gorm:"column:stripe_customer_id"`
	PaidAt           *time.Time           `gorm:"column:paid_at"`
	Notes            *string              `gorm:"column:notes"`
	Items            []OrderLineItem      `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
