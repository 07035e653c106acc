package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"storefront-bff/cart"
	"storefront-bff/clients"
	"storefront-bff/session"
)

const (
	// ClientCookie identifies a browser across reloads; it scopes the
	// persisted session and cart.
	ClientCookie = "sf_client_id"

	ClientIDKey = "client_id"
	SessionKey  = "session_manager"
	CartKey     = "cart_manager"
)

const clientCookieMaxAge = 3600 * 24 * 365

// ClientID assigns a stable client identifier cookie to every browser.
func ClientID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(ClientCookie)
		if err != nil || id == "" {
			id = uuid.NewString()
			c.SetCookie(ClientCookie, id, clientCookieMaxAge, "/", "", false, true)
		}
		c.Set(ClientIDKey, id)
		c.Next()
	}
}

// WithState rehydrates the session and cart managers for the current client
// before any handler runs. Corrupted persisted state degrades to logged-out /
// empty-cart rather than failing the request.
func WithState(sessions session.Store, carts cart.Store, api *clients.GatewayClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientID := c.GetString(ClientIDKey)
		ctx := c.Request.Context()

		sm := session.NewManager(sessions, api, clientID)
		sm.Initialize(ctx)

		cm := cart.NewManager(carts, clientID)
		cm.Initialize(ctx)

		c.Set(SessionKey, sm)
		c.Set(CartKey, cm)
		c.Next()
	}
}

// SessionFrom returns the session manager installed by WithState.
func SessionFrom(c *gin.Context) *session.Manager {
	return c.MustGet(SessionKey).(*session.Manager)
}

// CartFrom returns the cart manager installed by WithState.
func CartFrom(c *gin.Context) *cart.Manager {
	return c.MustGet(CartKey).(*cart.Manager)
}
