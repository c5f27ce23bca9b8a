package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BOGO offer types as sent by the storefront
const (
	OfferTypeBuyOneGetOne = "buy_one_get_one"
	OfferTypeBuyXGetY     = "buy_x_get_y"
)

// OfferTypeSpecial is the flash offer type rendered by the special offer grid
const OfferTypeSpecial = "special"

// Override types select the "original price" baseline of an offer
const (
	OverrideRegular = "regular"
	OverrideSale    = "sale"
)

// Offer statuses
const (
	OfferStatusActive   = "active"
	OfferStatusInactive = "inactive"
	OfferStatusUpcoming = "upcoming"
	OfferStatusExpired  = "expired"
)

// BogoOffer pairs a purchased product with a discounted companion product
type BogoOffer struct {
	ID           int64           `db:"id" json:"id"`
	BuyProductID int64           `db:"buy_product_id" json:"buy_product_id"`
	GetProductID int64           `db:"get_product_id" json:"get_product_id"`
	Discount     decimal.Decimal `db:"discount" json:"discount"`
	OverrideType string          `db:"override_type" json:"override_type"`
	Status       string          `db:"status" json:"status"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
}

// IsActive reports whether the offer may apply
func (o *BogoOffer) IsActive() bool {
	return o.Status == OfferStatusActive
}

// FlashOffer is a time-boxed discount bound to a content entry (post)
type FlashOffer struct {
	ID        int64           `db:"id" json:"id"`
	PostID    int64           `db:"post_id" json:"post_id"`
	Discount  decimal.Decimal `db:"discount" json:"discount"`
	StartDate time.Time       `db:"start_date" json:"start_date"`
	EndDate   time.Time       `db:"end_date" json:"end_date"`
	OfferType string          `db:"offer_type" json:"offer_type"`
}

// StatusAt derives the offer status; active iff start <= now < end.
func (o *FlashOffer) StatusAt(now time.Time) string {
	switch {
	case now.Before(o.StartDate):
		return OfferStatusUpcoming
	case now.Before(o.EndDate):
		return OfferStatusActive
	default:
		return OfferStatusExpired
	}
}

// IsExpired reports whether the end date lies strictly before now
func (o *FlashOffer) IsExpired(now time.Time) bool {
	return o.EndDate.Before(now)
}

// Option names
const (
	OptionFlashOffers = "flash_offers_options"
	OptionBogoOffers  = "bogo_offers_options"
)

// BogoFormatDefault renders BOGO prices server side
const BogoFormatDefault = "default"

// FlashOptions is the flash_offers_options blob
type FlashOptions struct {
	Message           string `json:"message"`
	BogoFormat        string `json:"bogo_format"`
	CountdownFormat   string `json:"countdown_format"`
	FlashOverrideType string `json:"flash_override_type"`
}

// BogoOptions is the bogo_offers_options blob
type BogoOptions struct {
	Message          string `json:"message"`
	BogoOverrideType string `json:"bogo_override_type"`
}

// WithDefaults fills unset fields
func (o FlashOptions) WithDefaults() FlashOptions {
	if o.BogoFormat == "" {
		o.BogoFormat = BogoFormatDefault
	}
	if o.CountdownFormat == "" {
		o.CountdownFormat = "format1"
	}
	if o.FlashOverrideType == "" {
		o.FlashOverrideType = OverrideSale
	}
	return o
}
