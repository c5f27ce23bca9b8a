package render

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"offer-service/config"
	"offer-service/internal/models"
	"offer-service/internal/money"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer("http://shop.test", money.NewFormatter(config.StorefrontConfig{
		CurrencySymbol:   "$",
		CurrencyPosition: money.PositionLeft,
		PriceDecimals:    2,
		PriceDecimalSep:  ".",
		PriceThousandSep: ",",
	}))
	require.NoError(t, err)
	return r
}

func simpleProduct(id int64, name string, regular, sale int64) models.Product {
	p := models.Product{
		ID:           id,
		Type:         models.ProductTypeSimple,
		Name:         name,
		Slug:         strings.ToLower(name),
		RegularPrice: decimal.NewFromInt(regular),
		InStock:      true,
		Status:       models.ProductStatusPublish,
	}
	if sale > 0 {
		p.SalePrice = decimal.NewNullDecimal(decimal.NewFromInt(sale))
	}
	return p
}

func variableProduct(id int64, name string) (models.Product, []models.Product) {
	parent := models.Product{
		ID:         id,
		Type:       models.ProductTypeVariable,
		Name:       name,
		Slug:       strings.ToLower(name),
		Attributes: models.Attributes{"Color": "Red|Blue"},
		InStock:    true,
		Status:     models.ProductStatusPublish,
	}
	variations := []models.Product{
		{ID: id + 1, ParentID: id, Type: models.ProductTypeVariation, Name: name + " - Red",
			RegularPrice: decimal.NewFromInt(30), Attributes: models.Attributes{"Color": "Red"}, InStock: true},
		{ID: id + 2, ParentID: id, Type: models.ProductTypeVariation, Name: name + " - Blue",
			RegularPrice: decimal.NewFromInt(30), Attributes: models.Attributes{"Color": "Blue"}, InStock: false},
	}
	return parent, variations
}

func TestTagURL(t *testing.T) {
	assert.Equal(t, "http://shop.test/product/mug/?from_offer=12", TagURL("http://shop.test/product/mug/", 12))
	assert.Equal(t, "http://shop.test/?add-to-cart=10&from_offer=12", TagURL("http://shop.test/?add-to-cart=10", 12))
	assert.Equal(t, "http://shop.test/?from_offer=12", TagURL("http://shop.test/?from_offer=3", 12))
}

func TestAddToCartURLAndText(t *testing.T) {
	r := newTestRenderer(t)
	mug := simpleProduct(10, "Mug", 100, 0)
	shirt, _ := variableProduct(20, "Shirt")

	assert.Equal(t, "http://shop.test/?add-to-cart=10", r.AddToCartURL(&mug))
	assert.Equal(t, "Add to cart", AddToCartText(&mug))
	assert.Equal(t, "http://shop.test/product/shirt/", r.AddToCartURL(&shirt))
	assert.Equal(t, "Select options", AddToCartText(&shirt))
}

func TestBogoBoxSimpleProducts(t *testing.T) {
	r := newTestRenderer(t)
	buy := simpleProduct(10, "Mug", 100, 80)
	get := simpleProduct(11, "Cup", 50, 0)

	getSection := r.BogoSection(RoleGet, "Get 1 at 25% Off: Cup", &get, nil, 1, true)
	html, err := r.BogoOfferBox(BogoBox{
		OfferType: models.OfferTypeBuyXGetY,
		Discount:  decimal.NewFromInt(25),
		OfferID:   7,
		Buy:       r.BogoSection(RoleBuy, "Buy 2: Mug", &buy, nil, 2, true),
		Get:       &getSection,
	})
	require.NoError(t, err)
	out := string(html)

	assert.Contains(t, out, `<div class="bogo-offer-box" data-offer_type="buy_x_get_y" data-discount="25" data-offer_id="7">`)
	assert.Contains(t, out, "<h3>Buy 2: Mug</h3>")
	assert.Contains(t, out, "<h3>Get 1 at 25% Off: Cup</h3>")
	assert.Contains(t, out, `<div class="price">`+string(r.Money().Strike(decimal.NewFromInt(100), decimal.NewFromInt(80)))+`</div>`)
	assert.Contains(t, out, `<div class="price">`+string(r.Money().Price(decimal.NewFromInt(50)))+`</div>`)
	assert.Contains(t, out, `<div class="bogo-simple-product-inline"><form class="bogo-buy-form cart"`)
	assert.Contains(t, out, `<div class="bogo-simple-product-inline"><form class="bogo-get-form cart"`)
	assert.Contains(t, out, `<input type="hidden" name="add-to-cart" value="10" />`)
	assert.Contains(t, out, `<input type="hidden" name="add-to-cart" value="11" />`)
	assert.Contains(t, out, `id="quantity_buy_10"`)
	assert.NotContains(t, out, `id="quantity_get_11"`)
	assert.NotContains(t, out, `for="quantity_get_11"`)
}

func TestBogoGetFormHasNoIDs(t *testing.T) {
	r := newTestRenderer(t)
	shirt, variations := variableProduct(20, "Shirt")

	buyHTML, err := r.execute("bogo_form", r.BogoSection(RoleBuy, "", &shirt, variations, 1, true).Form)
	require.NoError(t, err)
	getHTML, err := r.execute("bogo_form", r.BogoSection(RoleGet, "", &shirt, variations, 1, true).Form)
	require.NoError(t, err)

	assert.Contains(t, string(buyHTML), `<label for="color">Color</label>`)
	assert.Contains(t, string(buyHTML), `<select id="color" name="attribute_color"`)

	assert.NotContains(t, string(getHTML), " id=")
	assert.NotContains(t, string(getHTML), " for=")
	assert.Contains(t, string(getHTML), `<select name="attribute_color"`)
}

func TestBogoVariableFormEmbedsVariations(t *testing.T) {
	r := newTestRenderer(t)
	shirt, variations := variableProduct(20, "Shirt")

	section := r.BogoSection(RoleBuy, "Buy 1: Shirt", &shirt, variations, 1, true)
	assert.False(t, section.ShowPrice)
	require.Len(t, section.Form.Variations, 2)
	assert.Equal(t, "Red", section.Form.Variations[0].Attributes["attribute_color"])
	assert.False(t, section.Form.Variations[1].IsInStock)

	html, err := r.BogoOfferBox(BogoBox{OfferType: models.OfferTypeBuyOneGetOne, Buy: section})
	require.NoError(t, err)
	out := string(html)

	assert.Contains(t, out, `<div class="variations_form" data-product_id="20"><script type="application/json" class="wc-variations">[{"variation_id":21,`)
	assert.Contains(t, out, `<option value="Red">Red</option><option value="Blue">Blue</option>`)
	assert.NotContains(t, out, "bogo-simple-product-inline")
	assert.NotContains(t, out, `name="add-to-cart"`)
	assert.NotContains(t, out, "data-offer_id")
}

func TestBogoSectionPriceHidden(t *testing.T) {
	r := newTestRenderer(t)
	mug := simpleProduct(10, "Mug", 100, 0)

	section := r.BogoSection(RoleBuy, "Buy 1: Mug", &mug, nil, 0, false)
	assert.False(t, section.ShowPrice)
	assert.Equal(t, 1, section.Form.Quantity)
}

func gridProducts(n int) []models.Product {
	products := make([]models.Product, 0, n)
	for i := 1; i <= n; i++ {
		products = append(products, simpleProduct(int64(i), fmt.Sprintf("P%d", i), 10, 0))
	}
	return products
}

func TestSpecialOfferGridSliderThreshold(t *testing.T) {
	r := newTestRenderer(t)
	oc := OfferContext{OfferID: 12, Columns: 3}

	html, err := r.SpecialOfferGrid(oc, gridProducts(4), "")
	require.NoError(t, err)
	assert.NotContains(t, string(html), "flash-offer-slider-enabled")
	assert.NotContains(t, string(html), ".slick(")

	html, err = r.SpecialOfferGrid(oc, gridProducts(5), "")
	require.NoError(t, err)
	assert.Contains(t, string(html), `<div class="woocommerce flash-special-offer-container flash-offer-slider-enabled">`)
	assert.Contains(t, string(html), ".slick(")
	assert.Contains(t, string(html), "autoplaySpeed: 1500")
}

func TestSpecialOfferGridTagsLinks(t *testing.T) {
	r := newTestRenderer(t)
	shirt, _ := variableProduct(20, "Shirt")
	products := []models.Product{simpleProduct(10, "Mug", 100, 80), shirt}

	html, err := r.SpecialOfferGrid(OfferContext{OfferID: 12, Columns: 4}, products, "<div id=\"flash-offer-countdown\"></div>")
	require.NoError(t, err)
	out := string(html)

	assert.True(t, strings.HasPrefix(out, `<div id="flash-offer-countdown"></div>`))
	assert.Contains(t, out, `<ul class="products columns-4">`)
	assert.Contains(t, out, `href="http://shop.test/product/mug/?from_offer=12"`)
	assert.Contains(t, out, `href="http://shop.test/?add-to-cart=10&amp;from_offer=12"`)
	assert.Contains(t, out, `href="http://shop.test/product/shirt/?from_offer=12"`)
	assert.Contains(t, out, `class="button product_type_simple add_to_cart_button" data-product_id="10"`)
	assert.Contains(t, out, ">Select options</a>")
	assert.Equal(t, 2, strings.Count(out, `<li class="product flash-special-offer-product">`))
	assert.Contains(t, out, "from_offer=")
}

func TestCountdownMarkup(t *testing.T) {
	r := newTestRenderer(t)
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(48 * time.Hour)

	html, err := r.Countdown(CountdownView{Upcoming: true, Start: start, End: end, Text: "Starts in: 1d 0h 0m 0s"})
	require.NoError(t, err)
	assert.Equal(t,
		`<div id="flash-offer-countdown" class="flash-offer-countdown upcoming-offer" data-start="2026-01-01T00:00:00Z" data-end="2026-01-03T00:00:00Z">Starts in: 1d 0h 0m 0s</div>`,
		string(html))

	html, err = r.Countdown(CountdownView{Start: start, End: end, Text: "Ends in: 5s"})
	require.NoError(t, err)
	assert.Contains(t, string(html), `class="flash-offer-countdown" `)
}

func TestNotices(t *testing.T) {
	r := newTestRenderer(t)

	assert.Equal(t, `<p class="flash-offer-error">Invalid offer ID.</p>`, string(r.ErrorNotice("Invalid offer ID.")))
	assert.Equal(t, `<p class="flash-offer-notice">No valid products found.</p>`, string(r.InfoNotice("No valid products found.")))

	html, err := r.SavingsNotice("You saved <b>$1</b>")
	require.NoError(t, err)
	assert.Equal(t, `<div class="woocommerce-message offer-total-saved" style="margin-bottom: 20px;"><strong>You saved <b>$1</b></strong></div>`, string(html))
}

func TestItemNameWithBreakdown(t *testing.T) {
	r := newTestRenderer(t)

	html, err := r.ItemNameWithBreakdown("Mug & Co", "<del>x</del>")
	require.NoError(t, err)
	assert.Equal(t, `Mug &amp; Co<br><small class="offer-price-breakdown"><del>x</del></small>`, string(html))

	html, err = r.ItemNameWithBreakdown("Mug", "")
	require.NoError(t, err)
	assert.Equal(t, "Mug", string(html))
}
