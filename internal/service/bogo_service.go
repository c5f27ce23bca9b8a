package service

import (
	"context"
	"fmt"
	"html/template"
	"time"

	"offer-service/internal/auth"
	"offer-service/internal/models"
	"offer-service/internal/money"
	"offer-service/internal/render"
	"offer-service/internal/util"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// BogoService adds BOGO products to carts and builds the BOGO offer box
type BogoService struct {
	products  ProductRepository
	offers    OfferRepository
	cart      CartStore
	nonces    NonceVerifier
	publisher EventPublisher
	renderer  *render.Renderer
	cartTTL   time.Duration
	logger    *zap.Logger
}

// NewBogoService creates a new BOGO service
func NewBogoService(
	products ProductRepository,
	offers OfferRepository,
	cart CartStore,
	nonces NonceVerifier,
	publisher EventPublisher,
	renderer *render.Renderer,
	cartTTL time.Duration,
) *BogoService {
	return &BogoService{
		products:  products,
		offers:    offers,
		cart:      cart,
		nonces:    nonces,
		publisher: publisher,
		renderer:  renderer,
		cartTTL:   cartTTL,
		logger:    util.GetLogger(),
	}
}

// AddToCartRequest is a BOGO add-to-cart submission
type AddToCartRequest struct {
	CartSession string
	Nonce       string
	ProductID   int64
	VariationID int64
	Quantity    int
}

// AddToCart validates the request and inserts the product into the cart of
// the session. Every failed step ends the request.
func (s *BogoService) AddToCart(ctx context.Context, req *AddToCartRequest) error {
	ctx, span := util.StartOfferSpan(ctx, "BogoService.AddToCart", map[string]int64{
		"product_id":   req.ProductID,
		"variation_id": req.VariationID,
	})
	defer span.End()

	err := s.addToCart(ctx, req)
	util.BogoAddToCartTotal.WithLabelValues(addToCartOutcome(err)).Inc()
	return err
}

func (s *BogoService) addToCart(ctx context.Context, req *AddToCartRequest) error {
	if err := s.nonces.Verify(req.Nonce, auth.ActionBogoAdd, req.CartSession); err != nil {
		return ErrInvalidNonce
	}

	if req.ProductID == 0 {
		return ErrInvalidProductID
	}

	product, err := s.products.GetProductByID(ctx, req.ProductID)
	if err != nil {
		return errors.Wrap(err, "get product")
	}
	if product == nil {
		return ErrInvalidProduct
	}

	var variation *models.Product
	if req.VariationID != 0 {
		variation, err = s.products.GetProductByID(ctx, req.VariationID)
		if err != nil {
			return errors.Wrap(err, "get variation")
		}
		if variation == nil {
			return ErrInvalidVariation
		}
	}

	// a variation passed as the product is bought through its parent
	if variation == nil && product.IsType(models.ProductTypeVariation) && product.ParentID != 0 {
		parent, err := s.products.GetProductByID(ctx, product.ParentID)
		if err != nil {
			return errors.Wrap(err, "get parent product")
		}
		if parent == nil {
			return ErrInvalidProduct
		}
		product, variation = parent, product
	}

	productID, variationID, err := cartLine(product, variation, req.Quantity)
	if err != nil {
		s.logger.Info("Cart insertion refused",
			zap.Int64("product_id", req.ProductID),
			zap.Int64("variation_id", req.VariationID),
			zap.Int("quantity", req.Quantity),
			zap.Error(err),
		)
		return err
	}

	if _, err := s.cart.AddToCart(ctx, req.CartSession, productID, variationID, req.Quantity, s.cartTTL); err != nil {
		return errors.Wrap(err, "add to cart")
	}

	s.logger.Info("BOGO product added to cart",
		zap.String("cart_session", req.CartSession),
		zap.Int64("product_id", productID),
		zap.Int64("variation_id", variationID),
		zap.Int("quantity", req.Quantity),
	)

	if err := s.publisher.PublishCartItemAdded(ctx, req.CartSession, productID, variationID, req.Quantity); err != nil {
		s.logger.Error("Failed to publish CartItemAdded event", zap.Error(err))
	}

	return nil
}

// cartLine applies the storefront's purchasability rules and returns the
// product/variation pair to store
func cartLine(product, variation *models.Product, quantity int) (int64, int64, error) {
	if quantity <= 0 {
		return 0, 0, errors.Wrap(ErrCartRejected, "quantity must be positive")
	}

	if product.Status != models.ProductStatusPublish {
		return 0, 0, errors.Wrap(ErrCartRejected, "product is not published")
	}
	if !product.InStock {
		return 0, 0, errors.Wrap(ErrCartRejected, "product is out of stock")
	}

	if product.IsType(models.ProductTypeVariable) {
		if variation == nil {
			return 0, 0, errors.Wrap(ErrCartRejected, "variable product needs a variation")
		}
	}
	if variation == nil {
		return product.ID, 0, nil
	}

	if variation.ParentID != product.ID {
		return 0, 0, errors.Wrap(ErrCartRejected, "variation does not belong to product")
	}
	if !variation.InStock {
		return 0, 0, errors.Wrap(ErrCartRejected, "variation is out of stock")
	}
	return product.ID, variation.ID, nil
}

func addToCartOutcome(err error) string {
	switch {
	case err == nil:
		return "added"
	case errors.Is(err, ErrInvalidNonce):
		return "invalid_nonce"
	case errors.Is(err, ErrInvalidProductID), errors.Is(err, ErrInvalidProduct), errors.Is(err, ErrInvalidVariation):
		return "invalid_input"
	case errors.Is(err, ErrCartRejected):
		return "rejected"
	default:
		return "error"
	}
}

// OfferFormRequest asks for the BOGO offer box of a product pair. HasBuy and
// HasGet record whether the ids were supplied at all.
type OfferFormRequest struct {
	BuyProductID int64
	GetProductID int64
	HasBuy       bool
	HasGet       bool
	BuyQuantity  int
	GetQuantity  int
	OfferType    string
	Discount     decimal.Decimal
}

// OfferForm is the rendered box and the offer values it was rendered with
type OfferForm struct {
	HTML        template.HTML
	OfferType   string
	BuyQuantity int
	GetQuantity int
	Discount    decimal.Decimal
	OfferID     int64
}

// BuildOfferForm renders the offer box. For buy_x_get_y offers the stored
// offer row is authoritative for the discount and the offer id.
func (s *BogoService) BuildOfferForm(ctx context.Context, req *OfferFormRequest) (*OfferForm, error) {
	ctx, span := util.StartOfferSpan(ctx, "BogoService.BuildOfferForm", map[string]int64{
		"buy_product_id": req.BuyProductID,
		"get_product_id": req.GetProductID,
	})
	defer span.End()

	if req.OfferType == "" {
		req.OfferType = models.OfferTypeBuyXGetY
	}

	form, err := s.buildOfferForm(ctx, req)
	outcome := "built"
	if err != nil {
		outcome = "failed"
	}
	util.BogoFormBuildsTotal.WithLabelValues(req.OfferType, outcome).Inc()
	return form, err
}

func (s *BogoService) buildOfferForm(ctx context.Context, req *OfferFormRequest) (*OfferForm, error) {
	if !req.HasBuy || !req.HasGet {
		return nil, ErrMissingOfferData
	}

	buy, err := s.lookupProduct(ctx, req.BuyProductID)
	if err != nil {
		return nil, err
	}
	get, err := s.lookupProduct(ctx, req.GetProductID)
	if err != nil {
		return nil, err
	}
	if buy == nil || get == nil {
		return nil, ErrInvalidProducts
	}

	form := &OfferForm{
		OfferType:   req.OfferType,
		BuyQuantity: req.BuyQuantity,
		GetQuantity: req.GetQuantity,
		Discount:    req.Discount,
	}

	if req.OfferType == models.OfferTypeBuyXGetY {
		offer, err := s.offers.GetBogoOfferByProducts(ctx, req.BuyProductID, req.GetProductID)
		if err != nil {
			return nil, errors.Wrap(err, "get bogo offer")
		}
		if offer == nil {
			return nil, ErrOfferNotFound
		}
		form.Discount = offer.Discount
		form.OfferID = offer.ID
	}

	opts, err := loadFlashOptions(ctx, s.offers)
	if err != nil {
		return nil, err
	}
	showPrice := opts.BogoFormat == models.BogoFormatDefault

	box := render.BogoBox{
		OfferType: form.OfferType,
		Discount:  form.Discount,
		OfferID:   form.OfferID,
	}

	buyTitle := fmt.Sprintf("Buy %d: %s", form.BuyQuantity, buy.Name)
	if form.OfferType == models.OfferTypeBuyOneGetOne {
		buyTitle = "Buy One Get One: " + buy.Name
	}
	buyVariations, err := s.variationsOf(ctx, buy)
	if err != nil {
		return nil, err
	}
	box.Buy = s.renderer.BogoSection(render.RoleBuy, buyTitle, buy, buyVariations, form.BuyQuantity, showPrice)

	if form.OfferType != models.OfferTypeBuyOneGetOne {
		getTitle := fmt.Sprintf("Get %d at %d%% Off: %s", form.GetQuantity, money.RoundPercent(form.Discount), get.Name)
		getVariations, err := s.variationsOf(ctx, get)
		if err != nil {
			return nil, err
		}
		section := s.renderer.BogoSection(render.RoleGet, getTitle, get, getVariations, form.GetQuantity, showPrice)
		box.Get = &section
	}

	html, err := s.renderer.BogoOfferBox(box)
	if err != nil {
		s.logger.Error("Failed to render BOGO box", zap.Error(err))
		return nil, err
	}
	form.HTML = html

	s.logger.Debug("BOGO offer form built",
		zap.String("offer_type", form.OfferType),
		zap.Int64("offer_id", form.OfferID),
	)
	return form, nil
}

func (s *BogoService) lookupProduct(ctx context.Context, id int64) (*models.Product, error) {
	if id == 0 {
		return nil, nil
	}
	p, err := s.products.GetProductByID(ctx, id)
	if err != nil {
		return nil, errors.Wrapf(err, "get product %d", id)
	}
	return p, nil
}

func (s *BogoService) variationsOf(ctx context.Context, p *models.Product) ([]models.Product, error) {
	if !p.IsType(models.ProductTypeVariable) {
		return nil, nil
	}
	variations, err := s.products.GetVariations(ctx, p.ID)
	if err != nil {
		return nil, errors.Wrap(err, "get variations")
	}
	return variations, nil
}
