package service

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"testing"
	"time"

	"offer-service/config"
	"offer-service/internal/models"
	"offer-service/internal/money"
	"offer-service/internal/render"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

type fakeProducts struct {
	products map[int64]models.Product
	calls    int
}

func newFakeProducts(products ...models.Product) *fakeProducts {
	f := &fakeProducts{products: map[int64]models.Product{}}
	for _, p := range products {
		f.products[p.ID] = p
	}
	return f
}

func (f *fakeProducts) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	f.calls++
	p, ok := f.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (f *fakeProducts) GetProductsByIDs(ctx context.Context, ids []int64) ([]models.Product, error) {
	f.calls++
	var out []models.Product
	for _, id := range ids {
		if p, ok := f.products[id]; ok {
			out = append(out, p)
		}
	}
	// storage order is unrelated to the requested order
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeProducts) GetVariations(ctx context.Context, parentID int64) ([]models.Product, error) {
	var out []models.Product
	for _, p := range f.products {
		if p.ParentID == parentID && p.IsType(models.ProductTypeVariation) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeOffers struct {
	bogo          []models.BogoOffer
	flash         []models.FlashOffer
	offerProducts map[int64][]int64
	options       map[string]interface{}
	flashCalls    int
}

func newFakeOffers() *fakeOffers {
	return &fakeOffers{offerProducts: map[int64][]int64{}, options: map[string]interface{}{}}
}

func (f *fakeOffers) GetBogoOfferByProducts(ctx context.Context, buy, get int64) (*models.BogoOffer, error) {
	for _, o := range f.bogo {
		if o.BuyProductID == buy && o.GetProductID == get {
			o := o
			return &o, nil
		}
	}
	return nil, nil
}

func (f *fakeOffers) GetActiveBogoOfferForProduct(ctx context.Context, productID int64) (*models.BogoOffer, error) {
	for _, o := range f.bogo {
		if o.IsActive() && (o.BuyProductID == productID || o.GetProductID == productID) {
			o := o
			return &o, nil
		}
	}
	return nil, nil
}

func (f *fakeOffers) GetFlashOfferByPostID(ctx context.Context, postID int64, offerType string) (*models.FlashOffer, error) {
	f.flashCalls++
	for _, o := range f.flash {
		if o.PostID == postID && o.OfferType == offerType {
			o := o
			return &o, nil
		}
	}
	return nil, nil
}

func (f *fakeOffers) GetActiveFlashOfferForProduct(ctx context.Context, productID int64, now time.Time) (*models.FlashOffer, error) {
	for _, o := range f.flash {
		if o.StatusAt(now) != models.OfferStatusActive {
			continue
		}
		for _, id := range f.offerProducts[o.ID] {
			if id == productID {
				o := o
				return &o, nil
			}
		}
	}
	return nil, nil
}

func (f *fakeOffers) GetOfferProductIDs(ctx context.Context, offerID int64) ([]int64, error) {
	return f.offerProducts[offerID], nil
}

func (f *fakeOffers) GetOption(ctx context.Context, name string, dest interface{}) (bool, error) {
	v, ok := f.options[name]
	if !ok {
		return false, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(raw, dest)
}

type fakeOrders struct {
	orders map[int64]models.Order
	items  map[int64][]models.OrderItem
}

func (f *fakeOrders) GetOrderByID(ctx context.Context, id int64) (*models.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (f *fakeOrders) GetOrderItems(ctx context.Context, orderID int64) ([]models.OrderItem, error) {
	return f.items[orderID], nil
}

type cartAdd struct {
	session     string
	productID   int64
	variationID int64
	quantity    int
}

type fakeCart struct {
	adds []cartAdd
	err  error
}

func (f *fakeCart) AddToCart(ctx context.Context, session string, productID, variationID int64, quantity int, ttl time.Duration) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.adds = append(f.adds, cartAdd{session, productID, variationID, quantity})
	return int64(quantity), nil
}

type fakeNonces struct {
	valid string
}

func (f *fakeNonces) Verify(token, action, session string) error {
	if token != f.valid {
		return errors.New("bad nonce")
	}
	return nil
}

type fakePublisher struct {
	cartEvents    int
	savingsEvents []decimal.Decimal
}

func (f *fakePublisher) PublishCartItemAdded(ctx context.Context, session string, productID, variationID int64, quantity int) error {
	f.cartEvents++
	return nil
}

func (f *fakePublisher) PublishOrderSavingsComputed(ctx context.Context, orderID int64, total decimal.Decimal) error {
	f.savingsEvents = append(f.savingsEvents, total)
	return nil
}

func newTestRenderer(t *testing.T) *render.Renderer {
	t.Helper()
	r, err := render.NewRenderer("http://shop.test", money.NewFormatter(config.StorefrontConfig{
		CurrencySymbol:   "$",
		CurrencyPosition: money.PositionLeft,
		PriceDecimals:    2,
		PriceDecimalSep:  ".",
		PriceThousandSep: ",",
	}))
	require.NoError(t, err)
	return r
}

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func simple(id int64, name string, regular, sale string) models.Product {
	p := models.Product{
		ID:           id,
		Type:         models.ProductTypeSimple,
		Name:         name,
		Slug:         name,
		RegularPrice: dec(regular),
		InStock:      true,
		Status:       models.ProductStatusPublish,
	}
	if sale != "" {
		p.SalePrice = decimal.NewNullDecimal(dec(sale))
	}
	return p
}

func variable(id int64, name string) models.Product {
	return models.Product{
		ID:         id,
		Type:       models.ProductTypeVariable,
		Name:       name,
		Slug:       name,
		Attributes: models.Attributes{"Size": "S|M"},
		InStock:    true,
		Status:     models.ProductStatusPublish,
	}
}

func variation(id, parent int64, regular string, size string) models.Product {
	return models.Product{
		ID:           id,
		ParentID:     parent,
		Type:         models.ProductTypeVariation,
		Name:         "variation",
		RegularPrice: dec(regular),
		Attributes:   models.Attributes{"Size": size},
		InStock:      true,
		Status:       models.ProductStatusPublish,
	}
}
