package service

import (
	"context"
	"time"

	"offer-service/internal/models"

	"github.com/shopspring/decimal"
)

// ProductRepository reads storefront products
type ProductRepository interface {
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
	GetProductsByIDs(ctx context.Context, ids []int64) ([]models.Product, error)
	GetVariations(ctx context.Context, parentID int64) ([]models.Product, error)
}

// OfferRepository reads offer rows and option blobs
type OfferRepository interface {
	GetBogoOfferByProducts(ctx context.Context, buyProductID, getProductID int64) (*models.BogoOffer, error)
	GetActiveBogoOfferForProduct(ctx context.Context, productID int64) (*models.BogoOffer, error)
	GetFlashOfferByPostID(ctx context.Context, postID int64, offerType string) (*models.FlashOffer, error)
	GetActiveFlashOfferForProduct(ctx context.Context, productID int64, now time.Time) (*models.FlashOffer, error)
	GetOfferProductIDs(ctx context.Context, offerID int64) ([]int64, error)
	GetOption(ctx context.Context, name string, dest interface{}) (bool, error)
}

// OrderRepository reads placed orders
type OrderRepository interface {
	GetOrderByID(ctx context.Context, id int64) (*models.Order, error)
	GetOrderItems(ctx context.Context, orderID int64) ([]models.OrderItem, error)
}

// CartStore holds shopping carts keyed by cart session
type CartStore interface {
	AddToCart(ctx context.Context, session string, productID, variationID int64, quantity int, ttl time.Duration) (int64, error)
}

// JSONCache caches JSON encoded values
type JSONCache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// EventPublisher announces what the service did
type EventPublisher interface {
	PublishCartItemAdded(ctx context.Context, session string, productID, variationID int64, quantity int) error
	PublishOrderSavingsComputed(ctx context.Context, orderID int64, totalSaved decimal.Decimal) error
}

// NonceVerifier checks request security tokens
type NonceVerifier interface {
	Verify(token, action, session string) error
}
