package service

import (
	"context"
	"html/template"
	"strconv"
	"time"

	"offer-service/internal/models"
	"offer-service/internal/render"
	"offer-service/internal/shortcode"
	"offer-service/internal/util"

	"github.com/go-faster/errors"
	"go.uber.org/zap"
)

// SpecialOfferTag is the shortcode rendering a special offer grid
const SpecialOfferTag = "flash_special_offer"

// Inline messages of the special offer grid
const (
	msgInvalidOfferID   = "Invalid offer ID."
	msgMissingOffer     = "Invalid or missing special offer."
	msgOfferExpired     = "This special offer has expired."
	msgNoOfferProducts  = "No products found in this offer."
	msgNoValidProducts  = "No valid products found."
	defaultOfferColumns = 3
)

// SpecialOfferParams are the shortcode attributes. ID is the post the offer
// is bound to; Limit <= 0 means no limit.
type SpecialOfferParams struct {
	ID      int64
	Columns int
	Limit   int
}

// SpecialOfferService renders the special offer product grid
type SpecialOfferService struct {
	products  ProductRepository
	offers    OfferRepository
	countdown *CountdownService
	renderer  *render.Renderer
	now       func() time.Time
	logger    *zap.Logger
}

// NewSpecialOfferService creates a new special offer service
func NewSpecialOfferService(
	products ProductRepository,
	offers OfferRepository,
	countdown *CountdownService,
	renderer *render.Renderer,
) *SpecialOfferService {
	return &SpecialOfferService{
		products:  products,
		offers:    offers,
		countdown: countdown,
		renderer:  renderer,
		now:       time.Now,
		logger:    util.GetLogger(),
	}
}

// Render returns the grid, or an inline notice when the offer cannot be
// shown. Only infrastructure failures are returned as errors.
func (s *SpecialOfferService) Render(ctx context.Context, params SpecialOfferParams) (template.HTML, error) {
	ctx, span := util.StartOfferSpan(ctx, "SpecialOfferService.Render", map[string]int64{"offer_id": params.ID})
	defer span.End()

	start := time.Now()
	defer func() {
		util.SpecialOfferRenderLatency.Observe(time.Since(start).Seconds())
	}()

	html, outcome, err := s.render(ctx, params)
	if err != nil {
		outcome = "error"
		s.logger.Error("Failed to render special offer", zap.Int64("offer_id", params.ID), zap.Error(err))
	}
	util.SpecialOfferRendersTotal.WithLabelValues(outcome).Inc()
	return html, err
}

func (s *SpecialOfferService) render(ctx context.Context, params SpecialOfferParams) (template.HTML, string, error) {
	if params.ID == 0 {
		return s.renderer.ErrorNotice(msgInvalidOfferID), "invalid_id", nil
	}

	offer, err := s.offers.GetFlashOfferByPostID(ctx, params.ID, models.OfferTypeSpecial)
	if err != nil {
		return "", "", errors.Wrap(err, "get special offer")
	}
	if offer == nil {
		return s.renderer.ErrorNotice(msgMissingOffer), "not_found", nil
	}

	if offer.IsExpired(s.now()) {
		return s.renderer.ErrorNotice(msgOfferExpired), "expired", nil
	}

	ids, err := s.offers.GetOfferProductIDs(ctx, offer.ID)
	if err != nil {
		return "", "", errors.Wrap(err, "get offer products")
	}
	if len(ids) == 0 {
		return s.renderer.InfoNotice(msgNoOfferProducts), "no_products", nil
	}

	if params.Limit > 0 && len(ids) > params.Limit {
		ids = ids[:params.Limit]
	}

	products, err := s.orderedProducts(ctx, ids)
	if err != nil {
		return "", "", err
	}
	if len(products) == 0 {
		return s.renderer.InfoNotice(msgNoValidProducts), "no_valid_products", nil
	}

	opts, err := loadFlashOptions(ctx, s.offers)
	if err != nil {
		return "", "", err
	}
	countdown, err := s.countdown.OfferCountdown(offer, opts.CountdownFormat)
	if err != nil {
		return "", "", err
	}

	columns := params.Columns
	if columns <= 0 {
		columns = defaultOfferColumns
	}

	oc := render.OfferContext{OfferID: params.ID, Columns: columns}
	html, err := s.renderer.SpecialOfferGrid(oc, products, countdown)
	if err != nil {
		return "", "", err
	}
	return html, "rendered", nil
}

// orderedProducts fetches the products in the stored link order, skipping
// missing, unpublished and variation entries
func (s *SpecialOfferService) orderedProducts(ctx context.Context, ids []int64) ([]models.Product, error) {
	fetched, err := s.products.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, "get products")
	}

	byID := make(map[int64]models.Product, len(fetched))
	for _, p := range fetched {
		byID[p.ID] = p
	}

	out := make([]models.Product, 0, len(ids))
	seen := make(map[int64]bool, len(ids))
	for _, id := range ids {
		p, ok := byID[id]
		if !ok || seen[id] {
			continue
		}
		if p.Status != models.ProductStatusPublish || p.IsType(models.ProductTypeVariation) {
			continue
		}
		seen[id] = true
		out = append(out, p)
	}
	return out, nil
}

// ShortcodeHandler renders [flash_special_offer id columns limit] tags
func (s *SpecialOfferService) ShortcodeHandler() shortcode.Handler {
	return func(ctx context.Context, tag shortcode.Tag) (string, error) {
		params := SpecialOfferParams{
			ID:      util.IntVal(tag.Attr("id", "0")),
			Columns: int(util.IntVal(tag.Attr("columns", strconv.Itoa(defaultOfferColumns)))),
			Limit:   int(util.IntVal(tag.Attr("limit", "-1"))),
		}
		html, err := s.Render(ctx, params)
		return string(html), err
	}
}
