package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/craftline/storefront-backend/pkg/types"
)

// OrderLineItem captures the snapshot of one cart line at order time. The
// unit price is copied from the cart verbatim, never re-fetched from catalog.
type OrderLineItem struct {
	ID              uuid.UUID                `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID         uuid.UUID                `gorm:"column:order_id;type:uuid;not null"`
	ProductID       int64                    `gorm:"column:product_id;not null"`
	ProductTitle    string                   `gorm:"column:product_title;not null"`
	ProductSlug     string                   `gorm:"column:product_slug;not null"`
	SelectedVariant []types.VariantOption    `gorm:"column:selected_variant;type:jsonb;serializer:json"`
	UnitPrice       decimal.Decimal          `gorm:"column:unit_price;type:numeric(12,2);not null"`
	Quantity        int                      `gorm:"column:quantity;not null"`
	UploadedFiles   []types.UploadAttachment `gorm:"column:uploaded_files;type:jsonb;serializer:json"`
	CreatedAt       time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}
