package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BogoAddToCartTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bogo_add_to_cart_total",
		Help: "BOGO add-to-cart requests by outcome",
	}, []string{"outcome"})

	BogoFormBuildsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bogo_form_builds_total",
		Help: "BOGO offer form builds by offer type and outcome",
	}, []string{"offer_type", "outcome"})

	SpecialOfferRendersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "special_offer_renders_total",
		Help: "Special offer shortcode renders by outcome",
	}, []string{"outcome"})

	SpecialOfferRenderLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "special_offer_render_latency_seconds",
		Help:    "Latency of special offer grid rendering",
		Buckets: prometheus.DefBuckets,
	})

	SavingsNoticesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "offer_savings_notices_total",
		Help: "Thank-you pages that displayed a savings notice",
	})

	SavingsAmountTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "offer_savings_amount_total",
		Help: "Sum of customer savings shown on thank-you pages",
	})

	OfferResolutionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "offer_resolutions_total",
		Help: "Product offer resolutions by resolved kind",
	}, []string{"kind"})

	OfferCacheTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "offer_cache_requests_total",
		Help: "Offer cache lookups by result",
	}, []string{"result"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
