package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event types
const (
	EventTypeCartItemAdded        = "CART_ITEM_ADDED"
	EventTypeOrderSavingsComputed = "ORDER_SAVINGS_COMPUTED"
	EventTypeOfferUpdated         = "OFFER_UPDATED"
	EventTypeOptionsUpdated       = "OPTIONS_UPDATED"
)

// Offer kinds carried by OfferUpdatedEvent
const (
	OfferKindFlash = "flash"
	OfferKindBogo  = "bogo"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// CartItemAddedEvent published when a BOGO product lands in a cart
type CartItemAddedEvent struct {
	BaseEvent
	CartSession string `json:"cart_session"`
	ProductID   int64  `json:"product_id"`
	VariationID int64  `json:"variation_id"`
	Quantity    int    `json:"quantity"`
}

// OrderSavingsComputedEvent published when a thank-you page computed savings
type OrderSavingsComputedEvent struct {
	BaseEvent
	OrderID    int64           `json:"order_id"`
	TotalSaved decimal.Decimal `json:"total_saved"`
}

// OfferUpdatedEvent is published by the admin UI after an offer changed.
// PostID and OfferType are set for flash offers, the product pair for BOGO
// offers.
type OfferUpdatedEvent struct {
	BaseEvent
	Kind         string `json:"kind"`
	OfferID      int64  `json:"offer_id"`
	PostID       int64  `json:"post_id,omitempty"`
	OfferType    string `json:"offer_type,omitempty"`
	BuyProductID int64  `json:"buy_product_id,omitempty"`
	GetProductID int64  `json:"get_product_id,omitempty"`
}

// OptionsUpdatedEvent is published by the admin UI after an option blob changed
type OptionsUpdatedEvent struct {
	BaseEvent
	Name string `json:"name"`
}
