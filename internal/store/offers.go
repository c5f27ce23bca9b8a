package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"offer-service/internal/models"

	"github.com/go-faster/errors"
)

const (
	bogoColumns  = "id, buy_product_id, get_product_id, discount, override_type, status, created_at"
	flashColumns = "id, post_id, discount, start_date, end_date, offer_type"
)

// GetBogoOfferByProducts looks up the offer configured for a buy/get pair
func (s *Store) GetBogoOfferByProducts(ctx context.Context, buyProductID, getProductID int64) (*models.BogoOffer, error) {
	var offer models.BogoOffer
	query := "SELECT " + bogoColumns + " FROM " + s.table("bogo_offers") +
		" WHERE buy_product_id = $1 AND get_product_id = $2 ORDER BY id LIMIT 1"
	err := s.db.GetContext(ctx, &offer, query, buyProductID, getProductID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "get bogo offer")
	}
	return &offer, nil
}

// GetActiveBogoOfferForProduct returns the active offer where the product is
// either the buy or the get side
func (s *Store) GetActiveBogoOfferForProduct(ctx context.Context, productID int64) (*models.BogoOffer, error) {
	var offer models.BogoOffer
	query := "SELECT " + bogoColumns + " FROM " + s.table("bogo_offers") +
		" WHERE status = $1 AND (buy_product_id = $2 OR get_product_id = $2) ORDER BY id LIMIT 1"
	err := s.db.GetContext(ctx, &offer, query, models.OfferStatusActive, productID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get bogo offer for product %d", productID)
	}
	return &offer, nil
}

// GetFlashOfferByPostID looks up the offer of the given type bound to a post
func (s *Store) GetFlashOfferByPostID(ctx context.Context, postID int64, offerType string) (*models.FlashOffer, error) {
	var offer models.FlashOffer
	query := "SELECT " + flashColumns + " FROM " + s.table("flash_offers") +
		" WHERE post_id = $1 AND offer_type = $2 ORDER BY id LIMIT 1"
	err := s.db.GetContext(ctx, &offer, query, postID, offerType)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get flash offer for post %d", postID)
	}
	return &offer, nil
}

// GetActiveFlashOfferForProduct returns the flash offer running at now that
// grants the product, the one ending soonest first
func (s *Store) GetActiveFlashOfferForProduct(ctx context.Context, productID int64, now time.Time) (*models.FlashOffer, error) {
	var offer models.FlashOffer
	query := "SELECT o.id, o.post_id, o.discount, o.start_date, o.end_date, o.offer_type FROM " +
		s.table("flash_offers") + " o JOIN " + s.table("flash_offer_products") + " p ON p.offer_id = o.id" +
		" WHERE p.product_id = $1 AND o.start_date <= $2 AND o.end_date > $2 ORDER BY o.end_date LIMIT 1"
	err := s.db.GetContext(ctx, &offer, query, productID, now)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get flash offer for product %d", productID)
	}
	return &offer, nil
}

// GetOfferProductIDs returns the products granted by an offer in stored order
func (s *Store) GetOfferProductIDs(ctx context.Context, offerID int64) ([]int64, error) {
	var ids []int64
	query := "SELECT product_id FROM " + s.table("flash_offer_products") + " WHERE offer_id = $1 ORDER BY id"
	if err := s.db.SelectContext(ctx, &ids, query, offerID); err != nil {
		return nil, errors.Wrapf(err, "get products of offer %d", offerID)
	}
	return ids, nil
}

// GetOption decodes a named option blob into dest. It reports false when the
// option has never been saved.
func (s *Store) GetOption(ctx context.Context, name string, dest interface{}) (bool, error) {
	var raw []byte
	query := "SELECT value FROM " + s.table("options") + " WHERE name = $1"
	err := s.db.GetContext(ctx, &raw, query, name)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, "get option %s", name)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, errors.Wrapf(err, "decode option %s", name)
	}
	return true, nil
}
