package render

import (
	"html/template"
	"strings"
	"unicode"

	"offer-service/internal/models"

	"github.com/shopspring/decimal"
)

// Form roles inside a BOGO box
const (
	RoleBuy = "buy"
	RoleGet = "get"
)

// BogoBox is the whole offer fragment: the buy section and, unless the offer
// is a plain one-for-one, the get section.
type BogoBox struct {
	OfferType string
	Discount  decimal.Decimal
	OfferID   int64
	Buy       BogoSection
	Get       *BogoSection
}

// BogoSection is a title, an optional price block and a purchase form
type BogoSection struct {
	Title     string
	ShowPrice bool
	Price     template.HTML
	Form      ProductForm
}

// ProductForm describes the purchase form of one product. Element ids and
// label associations are emitted only when WithIDs is set so that two forms
// can share a page.
type ProductForm struct {
	Role       string
	ProductID  int64
	Name       string
	Action     string
	Quantity   int
	Simple     bool
	Variable   bool
	WithIDs    bool
	Attributes []AttributeSelect
	Variations []AvailableVariation
}

// AttributeSelect is one attribute dropdown of a variable product form
type AttributeSelect struct {
	ID      string
	Label   string
	Field   string
	Options []string
}

// AvailableVariation is the client-side variation matrix entry
type AvailableVariation struct {
	VariationID         int64             `json:"variation_id"`
	Attributes          map[string]string `json:"attributes"`
	DisplayPrice        float64           `json:"display_price"`
	DisplayRegularPrice float64           `json:"display_regular_price"`
	PriceHTML           string            `json:"price_html"`
	IsInStock           bool              `json:"is_in_stock"`
	SKU                 string            `json:"sku"`
	Image               string            `json:"image,omitempty"`
}

// AttributeField is the form field name of a product attribute
func AttributeField(name string) string {
	return "attribute_" + attributeSlug(name)
}

func attributeSlug(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
		} else if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// BogoSection builds one section of the box. variations is only consulted for
// variable products.
func (r *Renderer) BogoSection(role, title string, p *models.Product, variations []models.Product, quantity int, showPrice bool) BogoSection {
	if quantity < 1 {
		quantity = 1
	}

	form := ProductForm{
		Role:      role,
		ProductID: p.ID,
		Name:      p.Name,
		Action:    r.Permalink(p),
		Quantity:  quantity,
		Simple:    p.IsType(models.ProductTypeSimple),
		Variable:  p.IsType(models.ProductTypeVariable),
		WithIDs:   role != RoleGet,
	}

	if form.Variable {
		for _, name := range p.Attributes.Names() {
			slug := attributeSlug(name)
			form.Attributes = append(form.Attributes, AttributeSelect{
				ID:      slug,
				Label:   name,
				Field:   "attribute_" + slug,
				Options: p.Attributes.Options(name),
			})
		}
		form.Variations = r.AvailableVariations(variations)
	}

	section := BogoSection{Title: title, Form: form}
	if showPrice && form.Simple {
		section.ShowPrice = true
		section.Price = r.PriceHTML(p.RegularPrice, p.Sale(), p.IsOnSale())
	}
	return section
}

// AvailableVariations converts variation products into the client matrix
func (r *Renderer) AvailableVariations(variations []models.Product) []AvailableVariation {
	out := make([]AvailableVariation, 0, len(variations))
	for i := range variations {
		v := &variations[i]
		attrs := make(map[string]string, len(v.Attributes))
		for name, value := range v.Attributes {
			attrs[AttributeField(name)] = value
		}
		out = append(out, AvailableVariation{
			VariationID:         v.ID,
			Attributes:          attrs,
			DisplayPrice:        v.Price().InexactFloat64(),
			DisplayRegularPrice: v.RegularPrice.InexactFloat64(),
			PriceHTML:           string(r.PriceHTML(v.RegularPrice, v.Sale(), v.IsOnSale())),
			IsInStock:           v.InStock,
			SKU:                 v.SKU,
			Image:               v.ImageURL,
		})
	}
	return out
}

// BogoOfferBox renders the offer box
func (r *Renderer) BogoOfferBox(box BogoBox) (template.HTML, error) {
	return r.execute("bogo_box", box)
}
