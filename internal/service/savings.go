package service

import (
	"context"
	"html/template"
	"strings"

	"offer-service/internal/models"
	"offer-service/internal/money"
	"offer-service/internal/render"
	"offer-service/internal/util"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	amountPlaceholder     = "{amount}"
	defaultSavingsMessage = "🎉 Congratulations! You saved {amount} in this order"
)

// LineSaving is the saving computed for one order line
type LineSaving struct {
	Item          models.OrderItem
	Product       *models.Product
	Resolution    Resolution
	Baseline      decimal.Decimal
	PaidPerUnit   decimal.Decimal
	SavingPerUnit decimal.Decimal
	Saving        decimal.Decimal
}

// OrderSavings sums the savings of every line of an order
type OrderSavings struct {
	OrderID int64
	Lines   []LineSaving
	Total   decimal.Decimal
}

// ComputeLineSaving measures what a line saved against the baseline unit
// price: the unit price paid is lineTotal spread over at least one unit and a
// unit never saves less than zero.
func ComputeLineSaving(baseline, lineTotal decimal.Decimal, quantity int) (paidPerUnit, savingPerUnit, saving decimal.Decimal) {
	units := quantity
	if units < 1 {
		units = 1
	}
	paidPerUnit = lineTotal.Div(decimal.NewFromInt(int64(units)))
	savingPerUnit = decimal.Max(decimal.Zero, baseline.Sub(paidPerUnit))
	saving = savingPerUnit.Mul(decimal.NewFromInt(int64(quantity)))
	return paidPerUnit, savingPerUnit, saving
}

// AnnotatedItem is an order line name with its offer price breakdown
type AnnotatedItem struct {
	ItemID    int64         `json:"item_id"`
	ProductID int64         `json:"product_id"`
	Offer     string        `json:"offer"`
	NameHTML  template.HTML `json:"name_html"`
}

// SavingsService computes what customers saved through offers
type SavingsService struct {
	orders    OrderRepository
	products  ProductRepository
	offers    OfferRepository
	resolver  *OfferResolver
	publisher EventPublisher
	renderer  *render.Renderer
	logger    *zap.Logger
}

// NewSavingsService creates a new savings service
func NewSavingsService(
	orders OrderRepository,
	products ProductRepository,
	offers OfferRepository,
	resolver *OfferResolver,
	publisher EventPublisher,
	renderer *render.Renderer,
) *SavingsService {
	return &SavingsService{
		orders:    orders,
		products:  products,
		offers:    offers,
		resolver:  resolver,
		publisher: publisher,
		renderer:  renderer,
		logger:    util.GetLogger(),
	}
}

// ComputeSavings resolves the offer of every order line and sums the
// savings. Lines whose product no longer exists are skipped.
func (s *SavingsService) ComputeSavings(ctx context.Context, orderID int64) (*OrderSavings, error) {
	ctx, span := util.StartOfferSpan(ctx, "SavingsService.ComputeSavings", map[string]int64{"order_id": orderID})
	defer span.End()

	lines, err := s.resolveLines(ctx, orderID)
	if err != nil {
		return nil, err
	}

	result := &OrderSavings{OrderID: orderID, Total: decimal.Zero}
	for _, line := range lines {
		line.Baseline = line.Resolution.Baseline(line.Product)
		line.PaidPerUnit, line.SavingPerUnit, line.Saving = ComputeLineSaving(line.Baseline, line.Item.LineTotal, line.Item.Quantity)
		result.Total = result.Total.Add(line.Saving)
		result.Lines = append(result.Lines, line)
	}
	return result, nil
}

func (s *SavingsService) resolveLines(ctx context.Context, orderID int64) ([]LineSaving, error) {
	order, err := s.orders.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, errors.Wrap(err, "get order")
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	items, err := s.orders.GetOrderItems(ctx, orderID)
	if err != nil {
		return nil, errors.Wrap(err, "get order items")
	}

	lines := make([]LineSaving, 0, len(items))
	for _, item := range items {
		product, err := s.products.GetProductByID(ctx, item.PurchasedProductID())
		if err != nil {
			return nil, errors.Wrapf(err, "get product of item %d", item.ID)
		}
		if product == nil {
			continue
		}
		res, err := s.resolver.Resolve(ctx, product)
		if err != nil {
			return nil, errors.Wrapf(err, "resolve offer of item %d", item.ID)
		}
		lines = append(lines, LineSaving{Item: item, Product: product, Resolution: res})
	}
	return lines, nil
}

// ThankYouNotice renders the savings notice of an order, empty when the
// customer saved nothing
func (s *SavingsService) ThankYouNotice(ctx context.Context, orderID int64) (template.HTML, decimal.Decimal, error) {
	savings, err := s.ComputeSavings(ctx, orderID)
	if err != nil {
		return "", decimal.Zero, err
	}

	if err := s.publisher.PublishOrderSavingsComputed(ctx, orderID, savings.Total); err != nil {
		s.logger.Error("Failed to publish OrderSavingsComputed event", zap.Int64("order_id", orderID), zap.Error(err))
	}

	if !savings.Total.IsPositive() {
		return "", savings.Total, nil
	}

	message, err := s.savingsMessage(ctx)
	if err != nil {
		return "", decimal.Zero, err
	}

	escaped := template.HTMLEscapeString(message)
	final := strings.ReplaceAll(escaped, amountPlaceholder, string(s.renderer.Money().Price(savings.Total)))

	html, err := s.renderer.SavingsNotice(template.HTML(final))
	if err != nil {
		return "", decimal.Zero, err
	}

	util.SavingsNoticesTotal.Inc()
	util.SavingsAmountTotal.Add(savings.Total.InexactFloat64())
	s.logger.Info("Savings notice rendered",
		zap.Int64("order_id", orderID),
		zap.String("total_saved", savings.Total.String()),
	)
	return html, savings.Total, nil
}

// savingsMessage picks the flash message, then the BOGO message, then the
// default, and makes sure it carries the amount placeholder
func (s *SavingsService) savingsMessage(ctx context.Context) (string, error) {
	flash, err := loadFlashOptions(ctx, s.offers)
	if err != nil {
		return "", err
	}
	message := flash.Message
	if message == "" {
		bogo, err := loadBogoOptions(ctx, s.offers)
		if err != nil {
			return "", err
		}
		message = bogo.Message
	}
	if message == "" {
		return defaultSavingsMessage, nil
	}
	if !strings.Contains(message, amountPlaceholder) {
		message += " " + amountPlaceholder
	}
	return message, nil
}

// AnnotateItems returns every order line name, followed by the offer price
// breakdown for products covered by an active offer
func (s *SavingsService) AnnotateItems(ctx context.Context, orderID int64) ([]AnnotatedItem, error) {
	ctx, span := util.StartOfferSpan(ctx, "SavingsService.AnnotateItems", map[string]int64{"order_id": orderID})
	defer span.End()

	order, err := s.orders.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, errors.Wrap(err, "get order")
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	items, err := s.orders.GetOrderItems(ctx, orderID)
	if err != nil {
		return nil, errors.Wrap(err, "get order items")
	}

	out := make([]AnnotatedItem, 0, len(items))
	for _, item := range items {
		annotated := AnnotatedItem{
			ItemID:    item.ID,
			ProductID: item.PurchasedProductID(),
			Offer:     ResolutionNone.String(),
		}

		var price template.HTML
		product, err := s.products.GetProductByID(ctx, item.PurchasedProductID())
		if err != nil {
			return nil, errors.Wrapf(err, "get product of item %d", item.ID)
		}
		if product != nil {
			res, err := s.resolver.Resolve(ctx, product)
			if err != nil {
				return nil, errors.Wrapf(err, "resolve offer of item %d", item.ID)
			}
			annotated.Offer = res.Kind.String()
			price = s.breakdownPrice(product, res)
		}

		annotated.NameHTML, err = s.renderer.ItemNameWithBreakdown(item.Name, price)
		if err != nil {
			return nil, err
		}
		out = append(out, annotated)
	}
	return out, nil
}

func (s *SavingsService) breakdownPrice(p *models.Product, res Resolution) template.HTML {
	m := s.renderer.Money()

	switch res.Kind {
	case ResolutionFlash:
		baseline := res.Baseline(p)
		return m.Strike(baseline, money.ApplyDiscount(baseline, res.Flash.Discount))

	case ResolutionBogo:
		if res.Bogo.GetProductID == p.ID || res.Bogo.GetProductID == p.OfferProductID() {
			price := p.Price()
			return m.Strike(price, money.ApplyDiscount(price, res.Bogo.Discount))
		}
		return s.renderer.PriceHTML(p.RegularPrice, p.Sale(), p.IsOnSale())

	default:
		return ""
	}
}
