package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductVariant is one configurable option group on a product.
type ProductVariant struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// Product is a catalog document managed by the content layer. This core only
// reads it; pricing on orders comes from the cart snapshot, not from here.
type Product struct {
	ID            int64            `gorm:"column:id;primaryKey;autoIncrement"`
	Title         string           `gorm:"column:title;not null"`
	Slug          string           `gorm:"column:slug;uniqueIndex;not null"`
	Description   string           `gorm:"column:description"`
	Price         decimal.Decimal  `gorm:"column:price;type:numeric(12,2);not null"`
	Variants      []ProductVariant `gorm:"column:variants;type:jsonb;serializer:json"`
	CoverImageURL *string          `gorm:"column:cover_image_url"`
	Published     bool             `gorm:"column:published;not null;default:false"`
	CreatedAt     time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
