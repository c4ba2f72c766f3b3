package cart

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/craftline/storefront-backend/pkg/types"
)

// Item is a single cart line. UnitPrice is the price snapshotted when the item
// was added; the catalog is not consulted again until checkout.
type Item struct {
	Key             string                   `json:"key"`
	ProductID       int64                    `json:"productId"`
	ProductTitle    string                   `json:"productTitle"`
	ProductSlug     string                   `json:"productSlug"`
	UnitPrice       decimal.Decimal          `json:"unitPrice"`
	Quantity        int                      `json:"quantity"`
	SelectedVariant []types.VariantOption    `json:"selectedVariant,omitempty"`
	UploadedFiles   []types.UploadAttachment `json:"uploadedFiles,omitempty"`
	CoverImageURL   string                   `json:"coverImageUrl,omitempty"`
}

// Cart holds the items of one shopping session. Totals are never stored, they
// are always derived from the items.
type Cart struct {
	Items []Item `json:"items"`
}

// ItemKey derives the identity of a cart line from the product and its chosen
// variant options. The same product with different options is a distinct line;
// option order does not matter.
func ItemKey(productID int64, variant []types.VariantOption) string {
	if len(variant) == 0 {
		return fmt.Sprintf("%d_", productID)
	}
	pairs := make([]string, 0, len(variant))
	for _, v := range variant {
		pairs = append(pairs, v.VariantName+":"+v.VariantValue)
	}
	sort.Strings(pairs)
	return fmt.Sprintf("%d_%s", productID, strings.Join(pairs, "|"))
}

// AddItem merges the item into the cart. An existing line with the same
// identity key has its quantity increased; otherwise the line is appended.
// Quantities are taken as given; callers validate them at the boundary.
func (c *Cart) AddItem(item Item) {
	item.Key = ItemKey(item.ProductID, item.SelectedVariant)
	for i := range c.Items {
		if c.Items[i].Key == item.Key {
			c.Items[i].Quantity += item.Quantity
			return
		}
	}
	c.Items = append(c.Items, item)
}

// RemoveItem drops the line with the given key. Unknown keys are a no-op.
func (c *Cart) RemoveItem(key string) {
	for i := range c.Items {
		if c.Items[i].Key == key {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return
		}
	}
}

// SetQuantity replaces the quantity of the line with the given key. A quantity
// of zero or less removes the line.
func (c *Cart) SetQuantity(key string, quantity int) {
	if quantity <= 0 {
		c.RemoveItem(key)
		return
	}
	for i := range c.Items {
		if c.Items[i].Key == key {
			c.Items[i].Quantity = quantity
			return
		}
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Items = nil
}

// IsEmpty reports whether the cart has no items.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// TotalItems is the summed quantity across lines.
func (c *Cart) TotalItems() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

// TotalAmount is the summed line totals (unit price times quantity).
func (c *Cart) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}
