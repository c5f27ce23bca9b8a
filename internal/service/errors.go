package service

import "github.com/go-faster/errors"

var (
	ErrInvalidNonce     = errors.New("invalid security token")
	ErrInvalidProductID = errors.New("invalid product id")
	ErrInvalidProduct   = errors.New("invalid product")
	ErrInvalidVariation = errors.New("invalid variation")
	ErrCartRejected     = errors.New("product cannot be added to cart")
	ErrMissingOfferData = errors.New("missing offer data")
	ErrInvalidProducts  = errors.New("invalid products")
	ErrOfferNotFound    = errors.New("offer not found")
	ErrOrderNotFound    = errors.New("order not found")
)
