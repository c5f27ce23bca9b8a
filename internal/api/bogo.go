package api

import (
	"net/http"

	"offer-service/internal/auth"
	"offer-service/internal/models"
	"offer-service/internal/redisclient"
	"offer-service/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"
	"go.uber.org/zap"
)

// storefront ajax actions
const (
	actionBogoAddToCart = "bogo_add_to_cart"
	actionBogoForm      = "load_bogo_product_form"
)

const (
	msgInvalidRequest   = "Invalid request."
	msgInvalidNonce     = "Invalid security token."
	msgInvalidProductID = "Invalid product ID."
	msgInvalidProduct   = "Invalid product."
	msgInvalidVariation = "Invalid variation."
	msgCartFailed       = "Could not add product to cart."
	msgAddedToCart      = "Product added to cart successfully!"
	msgMissingOfferData = "Missing offer data"
	msgInvalidProducts  = "Invalid products"
	msgOfferNotInDB     = "Offer not found in database"
	msgFormFailed       = "Could not load offer form."
	msgUnknownAction    = "Unknown action."
)

// issueNonce hands out the token guarding BOGO cart requests of the session
func (h *Handler) issueNonce(c *gin.Context) {
	session := h.cartSession(c)

	token, err := h.nonces.Issue(auth.ActionBogoAdd, session)
	if err != nil {
		h.logger.Error("Failed to issue nonce", zap.Error(err))
		fail(c, http.StatusInternalServerError, "Could not issue security token.")
		return
	}

	ok(c, gin.H{
		"nonce":        token,
		"cart_session": session,
	})
}

// getCart lists the lines of the session's cart
func (h *Handler) getCart(c *gin.Context) {
	session := h.cartSession(c)

	lines, err := h.cart.GetCart(c.Request.Context(), session)
	if err != nil {
		h.logger.Error("Failed to read cart", zap.String("cart_session", session), zap.Error(err))
		fail(c, http.StatusInternalServerError, "Could not read cart.")
		return
	}
	if lines == nil {
		lines = []redisclient.CartLine{}
	}

	ok(c, gin.H{
		"cart_session": session,
		"items":        lines,
	})
}

// ajax dispatches storefront ajax calls by their action field
func (h *Handler) ajax(c *gin.Context) {
	p, err := readParams(c)
	if err != nil {
		fail(c, http.StatusBadRequest, msgInvalidRequest)
		return
	}

	action := p.String("action", c.Query("action"))
	switch action {
	case actionBogoAddToCart:
		h.addToCart(c, p)
	case actionBogoForm:
		h.productForm(c, p)
	default:
		fail(c, http.StatusBadRequest, msgUnknownAction)
	}
}

// bogoAddToCart handles BOGO add-to-cart submissions
func (h *Handler) bogoAddToCart(c *gin.Context) {
	p, err := readParams(c)
	if err != nil {
		fail(c, http.StatusBadRequest, msgInvalidRequest)
		return
	}
	h.addToCart(c, p)
}

func (h *Handler) addToCart(c *gin.Context, p params) {
	req := &service.AddToCartRequest{
		CartSession: h.cartSession(c),
		Nonce:       p.String("nonce", ""),
		ProductID:   p.Int("product_id"),
		VariationID: p.Int("variation_id"),
		Quantity:    int(p.Int("quantity")),
	}

	err := h.bogo.AddToCart(c.Request.Context(), req)
	switch {
	case err == nil:
		ok(c, gin.H{"message": msgAddedToCart})
	case errors.Is(err, service.ErrInvalidNonce):
		fail(c, http.StatusForbidden, msgInvalidNonce)
	case errors.Is(err, service.ErrInvalidProductID):
		fail(c, http.StatusBadRequest, msgInvalidProductID)
	case errors.Is(err, service.ErrInvalidProduct):
		fail(c, http.StatusBadRequest, msgInvalidProduct)
	case errors.Is(err, service.ErrInvalidVariation):
		fail(c, http.StatusBadRequest, msgInvalidVariation)
	case errors.Is(err, service.ErrCartRejected):
		fail(c, http.StatusBadRequest, msgCartFailed)
	default:
		h.logger.Error("Failed to add BOGO product to cart",
			zap.Int64("product_id", req.ProductID),
			zap.Int64("variation_id", req.VariationID),
			zap.Error(err),
		)
		fail(c, http.StatusInternalServerError, msgCartFailed)
	}
}

// bogoProductForm renders the BOGO offer box of a product pair
func (h *Handler) bogoProductForm(c *gin.Context) {
	p, err := readParams(c)
	if err != nil {
		fail(c, http.StatusBadRequest, msgInvalidRequest)
		return
	}
	h.productForm(c, p)
}

func (h *Handler) productForm(c *gin.Context, p params) {
	req := &service.OfferFormRequest{
		BuyProductID: p.Int("buy_product_id"),
		GetProductID: p.Int("get_product_id"),
		HasBuy:       p.Has("buy_product_id"),
		HasGet:       p.Has("get_product_id"),
		BuyQuantity:  int(p.IntDefault("buy_quantity", 1)),
		GetQuantity:  int(p.IntDefault("get_quantity", 1)),
		OfferType:    p.String("offer_type", models.OfferTypeBuyXGetY),
		Discount:     p.Decimal("discount"),
	}

	form, err := h.bogo.BuildOfferForm(c.Request.Context(), req)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrMissingOfferData):
		fail(c, http.StatusBadRequest, msgMissingOfferData)
		return
	case errors.Is(err, service.ErrInvalidProducts):
		fail(c, http.StatusBadRequest, msgInvalidProducts)
		return
	case errors.Is(err, service.ErrOfferNotFound):
		fail(c, http.StatusNotFound, msgOfferNotInDB)
		return
	default:
		h.logger.Error("Failed to build BOGO offer form",
			zap.Int64("buy_product_id", req.BuyProductID),
			zap.Int64("get_product_id", req.GetProductID),
			zap.Error(err),
		)
		fail(c, http.StatusInternalServerError, msgFormFailed)
		return
	}

	data := gin.H{
		"html":         form.HTML,
		"offer_type":   form.OfferType,
		"buy_quantity": form.BuyQuantity,
		"get_quantity": form.GetQuantity,
		"discount":     form.Discount.InexactFloat64(),
	}
	if form.OfferID != 0 {
		data["offer_id"] = form.OfferID
	}
	ok(c, data)
}
