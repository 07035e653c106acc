package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront-bff/cart"
	"storefront-bff/clients"
	"storefront-bff/logger"
	"storefront-bff/middleware"
	"storefront-bff/models"
	"storefront-bff/session"
)

// CheckoutPublisher emits checkout events for the fulfillment pipeline.
type CheckoutPublisher interface {
	SendCheckoutEvent(ctx context.Context, event models.CheckoutEvent) error
}

type CartController struct {
	publisher CheckoutPublisher
}

// NewCartController builds the cart controller. publisher may be nil when no
// broker is configured.
func NewCartController(publisher CheckoutPublisher) *CartController {
	return &CartController{publisher: publisher}
}

func (cc *CartController) cartPayload(c *gin.Context) gin.H {
	cm := middleware.CartFrom(c)
	return gin.H{
		"items":    cm.Items(),
		"subtotal": cm.Subtotal(),
	}
}

// GetCart returns the current cart and its subtotal.
func (cc *CartController) GetCart(c *gin.Context) {
	c.JSON(http.StatusOK, cc.cartPayload(c))
}

// AddItem inserts a line item, merging quantity with an existing line for the
// same product.
func (cc *CartController) AddItem(c *gin.Context) {
	var item models.CartItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	if err := middleware.CartFrom(c).AddItem(c.Request.Context(), item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, cc.cartPayload(c))
}

type updateQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// UpdateQuantity sets the quantity for a product; zero or less removes it.
func (cc *CartController) UpdateQuantity(c *gin.Context) {
	productID := c.Param("product_id")

	var req updateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	err := middleware.CartFrom(c).UpdateQuantity(c.Request.Context(), productID, *req.Quantity)
	if errors.Is(err, cart.ErrItemNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "item not in cart"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update cart"})
		return
	}

	c.JSON(http.StatusOK, cc.cartPayload(c))
}

// RemoveItem deletes a line item unconditionally.
func (cc *CartController) RemoveItem(c *gin.Context) {
	productID := c.Param("product_id")

	if err := middleware.CartFrom(c).RemoveItem(c.Request.Context(), productID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update cart"})
		return
	}

	c.JSON(http.StatusOK, cc.cartPayload(c))
}

// ClearCart removes all line items.
func (cc *CartController) ClearCart(c *gin.Context) {
	if err := middleware.CartFrom(c).Clear(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "cart cleared"})
}

// Checkout creates an order upstream from the cart, publishes a checkout
// event, and clears the cart on success.
func (cc *CartController) Checkout(c *gin.Context) {
	ctx := c.Request.Context()
	sm := middleware.SessionFrom(c)
	cm := middleware.CartFrom(c)

	items := cm.Items()
	if len(items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cart is empty"})
		return
	}

	order := gin.H{
		"items":    items,
		"subtotal": cm.Subtotal(),
	}
	resp, err := sm.PostJSON(ctx, "/orders", order)
	if errors.Is(err, session.ErrSessionExpired) {
		respondSessionExpired(c)
		return
	}
	if err != nil {
		logger.Log.Error("checkout request failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "order service unavailable"})
		return
	}

	var created map[string]interface{}
	if err := clients.DecodeJSON(resp, &created); err != nil {
		var apiErr *clients.APIError
		if errors.As(err, &apiErr) {
			c.JSON(apiErr.Status, gin.H{"error": apiErr.Message})
			return
		}
		logger.Log.Error("checkout response unreadable", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "order service unavailable"})
		return
	}

	if cc.publisher != nil {
		event := models.CheckoutEvent{
			Event:     "checkout.requested",
			ClientID:  c.GetString(middleware.ClientIDKey),
			Items:     items,
			Subtotal:  models.Subtotal(items),
			Timestamp: time.Now(),
		}
		if user := sm.User(); user != nil {
			event.UserID = user.ID
		}
		// Fulfillment consumes the order from upstream anyway; a publish
		// failure must not fail the checkout.
		if err := cc.publisher.SendCheckoutEvent(ctx, event); err != nil {
			logger.Log.Warn("checkout event publish failed", zap.Error(err))
		}
	}

	if err := cm.Clear(ctx); err != nil {
		logger.Log.Warn("failed to clear cart after checkout", zap.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{
		"order":   created,
		"message": "checkout complete",
	})
}
