package api

import (
	"net/http"
	"strconv"

	"offer-service/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"
	"go.uber.org/zap"
)

func parseOrderID(c *gin.Context) (int64, bool) {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || orderID <= 0 {
		fail(c, http.StatusBadRequest, "Invalid order ID.")
		return 0, false
	}
	return orderID, true
}

func (h *Handler) orderError(c *gin.Context, orderID int64, err error) {
	if errors.Is(err, service.ErrOrderNotFound) {
		fail(c, http.StatusNotFound, "Order not found.")
		return
	}
	h.logger.Error("Failed to load order savings", zap.Int64("order_id", orderID), zap.Error(err))
	fail(c, http.StatusInternalServerError, "Could not load order.")
}

// getThankYou renders the savings notice of the order confirmation page
func (h *Handler) getThankYou(c *gin.Context) {
	orderID, valid := parseOrderID(c)
	if !valid {
		return
	}

	html, total, err := h.savings.ThankYouNotice(c.Request.Context(), orderID)
	if err != nil {
		h.orderError(c, orderID, err)
		return
	}

	ok(c, gin.H{
		"html":        html,
		"total_saved": total.StringFixed(2),
	})
}

// getOrderItems returns the order line names with their offer price breakdown
func (h *Handler) getOrderItems(c *gin.Context) {
	orderID, valid := parseOrderID(c)
	if !valid {
		return
	}

	items, err := h.savings.AnnotateItems(c.Request.Context(), orderID)
	if err != nil {
		h.orderError(c, orderID, err)
		return
	}

	ok(c, gin.H{"items": items})
}
