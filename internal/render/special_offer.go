package render

import (
	"html/template"

	"offer-service/internal/models"
)

// SliderThreshold is the product count above which the grid becomes a carousel
const SliderThreshold = 4

// GridProduct is one product card of the special offer grid
type GridProduct struct {
	ID           int64
	Type         string
	Name         string
	SKU          string
	ImageURL     string
	URL          string
	AddToCartURL string
	ButtonText   string
	PriceHTML    template.HTML
}

type specialOfferView struct {
	OfferID   int64
	Columns   int
	Slider    bool
	Countdown template.HTML
	Products  []GridProduct
}

// SpecialOfferGrid renders the offer product grid. Every product link and
// add-to-cart link is tagged with the offer of oc.
func (r *Renderer) SpecialOfferGrid(oc OfferContext, products []models.Product, countdown template.HTML) (template.HTML, error) {
	columns := oc.Columns
	if columns < 1 {
		columns = 1
	}

	view := specialOfferView{
		OfferID:   oc.OfferID,
		Columns:   columns,
		Slider:    len(products) > SliderThreshold,
		Countdown: countdown,
		Products:  make([]GridProduct, 0, len(products)),
	}

	for i := range products {
		p := &products[i]
		card := GridProduct{
			ID:           p.ID,
			Type:         p.Type,
			Name:         p.Name,
			SKU:          p.SKU,
			ImageURL:     p.ImageURL,
			URL:          TagURL(r.Permalink(p), oc.OfferID),
			AddToCartURL: TagURL(r.AddToCartURL(p), oc.OfferID),
			ButtonText:   AddToCartText(p),
		}
		if p.Price().IsPositive() {
			card.PriceHTML = r.PriceHTML(p.RegularPrice, p.Sale(), p.IsOnSale())
		}
		view.Products = append(view.Products, card)
	}

	return r.execute("special_offer", view)
}
