package render

import (
	"net/url"
	"strconv"

	"offer-service/internal/models"
)

// FromOfferParam is the query parameter that carries the originating offer
const FromOfferParam = "from_offer"

// OfferContext carries the offer a fragment is rendered for. It is passed
// through every render call of one request and never stored.
type OfferContext struct {
	OfferID int64
	Columns int
}

// Permalink returns the product page URL
func (r *Renderer) Permalink(p *models.Product) string {
	return r.baseURL + "/product/" + url.PathEscape(p.Slug) + "/"
}

// AddToCartURL links simple products straight into the cart and everything
// else to the product page where options are chosen
func (r *Renderer) AddToCartURL(p *models.Product) string {
	if p.IsType(models.ProductTypeSimple) && p.InStock {
		return r.baseURL + "/?add-to-cart=" + strconv.FormatInt(p.ID, 10)
	}
	return r.Permalink(p)
}

// AddToCartText is the loop button label
func AddToCartText(p *models.Product) string {
	switch {
	case p.IsType(models.ProductTypeVariable):
		return "Select options"
	case p.InStock:
		return "Add to cart"
	default:
		return "Read more"
	}
}

// TagURL adds the from_offer parameter to raw. Malformed URLs are returned
// unchanged.
func TagURL(raw string, offerID int64) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	q := u.Query()
	q.Set(FromOfferParam, strconv.FormatInt(offerID, 10))
	u.RawQuery = q.Encode()
	return u.String()
}
