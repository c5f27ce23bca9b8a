package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Product types
const (
	ProductTypeSimple    = "simple"
	ProductTypeVariable  = "variable"
	ProductTypeVariation = "variation"
)

// ProductStatusPublish marks a product visible in the storefront
const ProductStatusPublish = "publish"

// Product is a storefront product, variable product or single variation.
type Product struct {
	ID           int64               `db:"id" json:"id"`
	ParentID     int64               `db:"parent_id" json:"parent_id"`
	Type         string              `db:"type" json:"type"`
	Name         string              `db:"name" json:"name"`
	Slug         string              `db:"slug" json:"slug"`
	SKU          string              `db:"sku" json:"sku"`
	RegularPrice decimal.Decimal     `db:"regular_price" json:"regular_price"`
	SalePrice    decimal.NullDecimal `db:"sale_price" json:"sale_price"`
	ImageURL     string              `db:"image_url" json:"image_url"`
	Attributes   Attributes          `db:"attributes" json:"attributes"`
	InStock      bool                `db:"in_stock" json:"in_stock"`
	Status       string              `db:"status" json:"status"`
	CreatedAt    time.Time           `db:"created_at" json:"created_at"`
}

// IsType reports whether the product is of the given type
func (p *Product) IsType(t string) bool {
	return p.Type == t
}

// Sale returns the sale price, zero when none is set
func (p *Product) Sale() decimal.Decimal {
	if !p.SalePrice.Valid {
		return decimal.Zero
	}
	return p.SalePrice.Decimal
}

// IsOnSale reports whether a positive sale price below the regular price is set
func (p *Product) IsOnSale() bool {
	sale := p.Sale()
	return sale.IsPositive() && sale.LessThan(p.RegularPrice)
}

// Price is the price a customer currently pays
func (p *Product) Price() decimal.Decimal {
	if p.IsOnSale() {
		return p.Sale()
	}
	return p.RegularPrice
}

// OfferProductID is the id offers are configured against: variations inherit
// the offers of their parent product.
func (p *Product) OfferProductID() int64 {
	if p.IsType(ProductTypeVariation) && p.ParentID != 0 {
		return p.ParentID
	}
	return p.ID
}

// Attributes holds attribute values keyed by attribute name. For a variation
// each value is the chosen option; for a variable product each value lists the
// available options separated by "|".
type Attributes map[string]string

// Scan implements sql.Scanner for JSONB columns
func (a *Attributes) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*a = Attributes{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported attributes type %T", src)
	}
	if len(raw) == 0 {
		*a = Attributes{}
		return nil
	}
	m := Attributes{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return fmt.Errorf("failed to decode attributes: %w", err)
	}
	*a = m
	return nil
}

// Value implements driver.Valuer
func (a Attributes) Value() (driver.Value, error) {
	if a == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(map[string]string(a))
}

// Names returns attribute names in stable order
func (a Attributes) Names() []string {
	names := make([]string, 0, len(a))
	for k := range a {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Options splits the option list of a variable product attribute
func (a Attributes) Options(name string) []string {
	var out []string
	for _, o := range strings.Split(a[name], "|") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// Order represents a placed storefront order
type Order struct {
	ID        int64     `db:"id" json:"id"`
	Status    string    `db:"status" json:"status"`
	Currency  string    `db:"currency" json:"currency"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// OrderItem is one line of an order. LineTotal is what the customer paid for
// the whole line after all discounts.
type OrderItem struct {
	ID          int64           `db:"id" json:"id"`
	OrderID     int64           `db:"order_id" json:"order_id"`
	ProductID   int64           `db:"product_id" json:"product_id"`
	VariationID int64           `db:"variation_id" json:"variation_id"`
	Name        string          `db:"name" json:"name"`
	Quantity    int             `db:"quantity" json:"quantity"`
	LineTotal   decimal.Decimal `db:"line_total" json:"line_total"`
}

// PurchasedProductID is the product actually bought on this line
func (i *OrderItem) PurchasedProductID() int64 {
	if i.VariationID != 0 {
		return i.VariationID
	}
	return i.ProductID
}
