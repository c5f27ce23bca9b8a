package api

import (
	"net/http"

	"offer-service/internal/assets"
	"offer-service/internal/models"
	"offer-service/internal/service"
	"offer-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"
	"go.uber.org/zap"
)

// getSpecialOffer renders the special offer grid bound to a post
func (h *Handler) getSpecialOffer(c *gin.Context) {
	req := service.SpecialOfferParams{
		ID:      util.IntVal(c.Param("id")),
		Columns: int(util.IntVal(c.DefaultQuery("columns", "3"))),
		Limit:   int(util.IntVal(c.DefaultQuery("limit", "-1"))),
	}

	html, err := h.specialOffer.Render(c.Request.Context(), req)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Could not render special offer.")
		return
	}
	ok(c, gin.H{"html": html})
}

type renderShortcodesRequest struct {
	Content string `json:"content"`
}

// renderShortcodes expands the shortcodes of a content body
func (h *Handler) renderShortcodes(c *gin.Context) {
	var req renderShortcodesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, msgInvalidRequest)
		return
	}

	out, err := h.shortcodes.Expand(c.Request.Context(), req.Content)
	if err != nil {
		h.logger.Error("Failed to expand shortcodes", zap.Error(err))
		fail(c, http.StatusInternalServerError, "Could not render content.")
		return
	}
	ok(c, gin.H{"html": out})
}

// getCountdown renders the countdown of the offer bound to a post
func (h *Handler) getCountdown(c *gin.Context) {
	postID := util.IntVal(c.Param("post_id"))
	offerType := c.DefaultQuery("offer_type", models.OfferTypeSpecial)

	html, err := h.countdown.RenderForPost(c.Request.Context(), postID, offerType)
	if err != nil {
		if errors.Is(err, service.ErrOfferNotFound) {
			fail(c, http.StatusNotFound, "Offer not found.")
			return
		}
		h.logger.Error("Failed to render countdown", zap.Int64("post_id", postID), zap.Error(err))
		fail(c, http.StatusInternalServerError, "Could not render countdown.")
		return
	}
	ok(c, gin.H{"html": html})
}

// countdownScript serves the client countdown script with the configured
// format
func (h *Handler) countdownScript(c *gin.Context) {
	format, err := h.countdown.Format(c.Request.Context())
	if err != nil {
		h.logger.Warn("Falling back to the default countdown format", zap.Error(err))
		format = service.CountdownFormat1
	}

	body, err := assets.CountdownScript(assets.CountdownVars{CountdownFormat: format})
	if err != nil {
		h.logger.Error("Failed to build countdown script", zap.Error(err))
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Data(http.StatusOK, "application/javascript; charset=utf-8", body)
}
