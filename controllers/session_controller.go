package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront-bff/clients"
	"storefront-bff/logger"
	"storefront-bff/middleware"
	"storefront-bff/session"
)

type SessionController struct{}

func NewSessionController() *SessionController {
	return &SessionController{}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login exchanges credentials upstream and returns the principal plus the
// role-specific dashboard redirect. The page performs the navigation.
func (sc *SessionController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	sm := middleware.SessionFrom(c)
	result, err := sm.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		var apiErr *clients.APIError
		if errors.As(err, &apiErr) {
			logger.Log.Warn("login rejected", zap.String("email", req.Email), zap.Int("status", apiErr.Status))
			c.JSON(http.StatusUnauthorized, gin.H{"error": apiErr.Message})
			return
		}
		logger.Log.Error("login request failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "authentication service unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":     result.User,
		"redirect": result.Redirect,
	})
}

// Logout clears the session and sends the page home.
func (sc *SessionController) Logout(c *gin.Context) {
	redirect := middleware.SessionFrom(c).Logout(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"redirect": redirect})
}

// Session reports the current principal and its derived capability flags.
// Pages call this once on boot instead of parsing the credential themselves.
func (sc *SessionController) Session(c *gin.Context) {
	sm := middleware.SessionFrom(c)

	payload := gin.H{
		"authenticated":  sm.IsAuthenticated(),
		"loading":        sm.Loading(),
		"dashboard_path": sm.DashboardPath(),
		"roles": gin.H{
			"admin":            sm.IsAdmin(),
			"manager":          sm.IsManager(),
			"staff":            sm.IsStaff(),
			"auditor":          sm.IsAuditor(),
			"member":           sm.IsMember(),
			"volunteer":        sm.IsVolunteer(),
			"has_admin_access": sm.HasAdminAccess(),
		},
	}
	if user := sm.User(); user != nil {
		payload["user"] = user
	}

	c.JSON(http.StatusOK, payload)
}

// ClientRouteHeader carries the page's current route so expiry redirects can
// be suppressed on authentication pages.
const ClientRouteHeader = "X-Client-Route"

// respondSessionExpired maps ErrSessionExpired to a 401 carrying the login
// redirect, omitted when the page is already inside the auth flow.
func respondSessionExpired(c *gin.Context) {
	body := gin.H{"error": "session expired"}
	if redirect := session.ExpiryRedirect(c.GetHeader(ClientRouteHeader)); redirect != "" {
		body["redirect"] = redirect
	}
	c.JSON(http.StatusUnauthorized, body)
}
