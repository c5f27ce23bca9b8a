package api

import (
	"context"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"offer-service/internal/redisclient"
	"offer-service/internal/service"
	"offer-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// BogoService is the BOGO cart and form surface
type BogoService interface {
	AddToCart(ctx context.Context, req *service.AddToCartRequest) error
	BuildOfferForm(ctx context.Context, req *service.OfferFormRequest) (*service.OfferForm, error)
}

// SpecialOfferService renders special offer grids
type SpecialOfferService interface {
	Render(ctx context.Context, params service.SpecialOfferParams) (template.HTML, error)
}

// CountdownService renders offer countdowns
type CountdownService interface {
	RenderForPost(ctx context.Context, postID int64, offerType string) (template.HTML, error)
	Format(ctx context.Context) (string, error)
}

// SavingsService computes order savings
type SavingsService interface {
	ThankYouNotice(ctx context.Context, orderID int64) (template.HTML, decimal.Decimal, error)
	AnnotateItems(ctx context.Context, orderID int64) ([]service.AnnotatedItem, error)
}

// ShortcodeExpander renders shortcodes embedded in content
type ShortcodeExpander interface {
	Expand(ctx context.Context, content string) (string, error)
}

// NonceIssuer issues request security tokens
type NonceIssuer interface {
	Issue(action, session string) (string, error)
}

// CartReader reads the cart of a session
type CartReader interface {
	GetCart(ctx context.Context, session string) ([]redisclient.CartLine, error)
}

// Pinger is a dependency checked by the readiness probe
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies wires the handler
type Dependencies struct {
	Bogo         BogoService
	SpecialOffer SpecialOfferService
	Countdown    CountdownService
	Savings      SavingsService
	Shortcodes   ShortcodeExpander
	Nonces       NonceIssuer
	Cart         CartReader
	Checks       map[string]Pinger
	CartTTL      time.Duration
}

// Handler contains HTTP handlers
type Handler struct {
	bogo         BogoService
	specialOffer SpecialOfferService
	countdown    CountdownService
	savings      SavingsService
	shortcodes   ShortcodeExpander
	nonces       NonceIssuer
	cart         CartReader
	checks       map[string]Pinger
	cartTTL      time.Duration
	logger       *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(deps Dependencies) *Handler {
	return &Handler{
		bogo:         deps.Bogo,
		specialOffer: deps.SpecialOffer,
		countdown:    deps.Countdown,
		savings:      deps.Savings,
		shortcodes:   deps.Shortcodes,
		nonces:       deps.Nonces,
		cart:         deps.Cart,
		checks:       deps.Checks,
		cartTTL:      deps.CartTTL,
		logger:       util.GetLogger(),
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/assets/countdown.js", h.countdownScript)

	// storefront ajax endpoint, dispatched by the action field
	router.POST("/ajax", h.ajax)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/nonce", h.issueNonce)
		v1.GET("/cart", h.getCart)

		v1.POST("/bogo/add-to-cart", h.bogoAddToCart)
		v1.POST("/bogo/product-form", h.bogoProductForm)

		v1.GET("/special-offers/:id", h.getSpecialOffer)
		v1.POST("/shortcodes/render", h.renderShortcodes)
		v1.GET("/offers/:post_id/countdown", h.getCountdown)

		v1.GET("/orders/:id/thank-you", h.getThankYou)
		v1.GET("/orders/:id/items", h.getOrderItems)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck pings the database and Redis
func (h *Handler) readinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	failed := gin.H{}
	for name, check := range h.checks {
		if err := check.Ping(ctx); err != nil {
			h.logger.Warn("Readiness check failed", zap.String("check", name), zap.Error(err))
			failed[name] = err.Error()
		}
	}

	if len(failed) > 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"failed": failed,
			"time":   time.Now().Unix(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
