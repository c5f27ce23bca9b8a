package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// CartSessionHeader carries the cart session of API clients
	CartSessionHeader = "X-Cart-Session"
	cartSessionCookie = "cart_session"
)

// cartSession identifies the shopper's cart. A new session cookie is issued
// when the request carries none.
func (h *Handler) cartSession(c *gin.Context) string {
	if s := c.GetHeader(CartSessionHeader); s != "" {
		return s
	}
	if s, err := c.Cookie(cartSessionCookie); err == nil && s != "" {
		return s
	}

	session := uuid.New().String()
	maxAge := int(h.cartTTL / time.Second)
	c.SetCookie(cartSessionCookie, session, maxAge, "/", "", false, true)
	c.Header(CartSessionHeader, session)
	return session
}
