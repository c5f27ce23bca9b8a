package service

import (
	"context"
	"time"

	"offer-service/internal/models"
	"offer-service/internal/util"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ResolutionKind tags which offer mechanism applies to a product
type ResolutionKind int

const (
	ResolutionNone ResolutionKind = iota
	ResolutionFlash
	ResolutionBogo
)

func (k ResolutionKind) String() string {
	switch k {
	case ResolutionFlash:
		return "flash"
	case ResolutionBogo:
		return "bogo"
	default:
		return "none"
	}
}

// Resolution is the offer that applies to a product. Flash is set for
// ResolutionFlash, Bogo for ResolutionBogo.
type Resolution struct {
	Kind         ResolutionKind
	Flash        *models.FlashOffer
	Bogo         *models.BogoOffer
	OverrideType string
}

// Baseline is the "original" unit price savings are measured against
func (r Resolution) Baseline(p *models.Product) decimal.Decimal {
	if r.Kind == ResolutionNone || r.OverrideType == models.OverrideRegular {
		return p.RegularPrice
	}
	if sale := p.Sale(); sale.IsPositive() {
		return sale
	}
	return p.RegularPrice
}

// Discount is the offer percentage
func (r Resolution) Discount() decimal.Decimal {
	switch r.Kind {
	case ResolutionFlash:
		return r.Flash.Discount
	case ResolutionBogo:
		return r.Bogo.Discount
	default:
		return decimal.Zero
	}
}

// OfferResolver decides which active offer, if any, covers a product. A
// running flash offer takes precedence over a BOGO pairing.
type OfferResolver struct {
	offers OfferRepository
	now    func() time.Time
}

// NewOfferResolver creates a new offer resolver
func NewOfferResolver(offers OfferRepository) *OfferResolver {
	return &OfferResolver{offers: offers, now: time.Now}
}

// Resolve looks up the offer of the product, or of its parent for variations
func (r *OfferResolver) Resolve(ctx context.Context, p *models.Product) (Resolution, error) {
	ctx, span := util.StartOfferSpan(ctx, "OfferResolver.Resolve", map[string]int64{"product_id": p.ID})
	defer span.End()

	res, err := r.resolve(ctx, p)
	if err != nil {
		return Resolution{}, err
	}
	util.OfferResolutionsTotal.WithLabelValues(res.Kind.String()).Inc()
	return res, nil
}

func (r *OfferResolver) resolve(ctx context.Context, p *models.Product) (Resolution, error) {
	now := r.now()
	ids := candidateIDs(p)

	for _, id := range ids {
		flash, err := r.offers.GetActiveFlashOfferForProduct(ctx, id, now)
		if err != nil {
			return Resolution{}, errors.Wrap(err, "get flash offer")
		}
		if flash == nil || flash.StatusAt(now) != models.OfferStatusActive {
			continue
		}
		opts, err := loadFlashOptions(ctx, r.offers)
		if err != nil {
			return Resolution{}, err
		}
		return Resolution{Kind: ResolutionFlash, Flash: flash, OverrideType: opts.FlashOverrideType}, nil
	}

	for _, id := range ids {
		bogo, err := r.offers.GetActiveBogoOfferForProduct(ctx, id)
		if err != nil {
			return Resolution{}, errors.Wrap(err, "get bogo offer")
		}
		if bogo == nil || !bogo.IsActive() {
			continue
		}
		override := bogo.OverrideType
		if override == "" {
			opts, err := loadBogoOptions(ctx, r.offers)
			if err != nil {
				return Resolution{}, err
			}
			override = opts.BogoOverrideType
		}
		if override == "" {
			override = models.OverrideSale
		}
		return Resolution{Kind: ResolutionBogo, Bogo: bogo, OverrideType: override}, nil
	}

	return Resolution{Kind: ResolutionNone}, nil
}

func candidateIDs(p *models.Product) []int64 {
	if parent := p.OfferProductID(); parent != p.ID {
		return []int64{p.ID, parent}
	}
	return []int64{p.ID}
}
