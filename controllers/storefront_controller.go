package controllers

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront-bff/clients"
	"storefront-bff/logger"
	"storefront-bff/middleware"
	"storefront-bff/session"
)

// StorefrontController serves the page-shaped reads and proxies everything
// the storefront does not own to the upstream API. Authorized calls go
// through the session manager so the credential is attached and 401s expire
// the session no matter which page triggered them.
type StorefrontController struct {
	gateway *clients.GatewayClient
}

func NewStorefrontController(gateway *clients.GatewayClient) *StorefrontController {
	return &StorefrontController{gateway: gateway}
}

func (s *StorefrontController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Home aggregates the landing page: upcoming events and latest news fetched
// concurrently. Both are public reads, so they bypass the session layer.
func (s *StorefrontController) Home(c *gin.Context) {
	ctx := c.Request.Context()

	eventsQuery := url.Values{}
	for key, values := range c.Request.URL.Query() {
		for _, v := range values {
			eventsQuery.Add(key, v)
		}
	}
	if eventsQuery.Get("perPage") == "" {
		eventsQuery.Set("perPage", "6")
	}

	type result struct {
		data map[string]interface{}
		err  error
	}

	eventsCh := make(chan result, 1)
	newsCh := make(chan result, 1)

	go func() {
		resp, err := s.gateway.Do(ctx, http.MethodGet, "/events", eventsQuery, nil, nil)
		if err != nil {
			eventsCh <- result{err: err}
			return
		}
		var data map[string]interface{}
		err = clients.DecodeJSON(resp, &data)
		eventsCh <- result{data: data, err: err}
	}()

	go func() {
		resp, err := s.gateway.Do(ctx, http.MethodGet, "/news", nil, nil, nil)
		if err != nil {
			newsCh <- result{err: err}
			return
		}
		var data map[string]interface{}
		err = clients.DecodeJSON(resp, &data)
		newsCh <- result{data: data, err: err}
	}()

	events := <-eventsCh
	news := <-newsCh

	if events.err != nil || news.err != nil {
		logger.Log.Error("failed to load home data",
			zap.NamedError("events", events.err),
			zap.NamedError("news", news.err),
		)
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to load home data"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"events":    events.data,
		"news":      news.data,
		"timestamp": time.Now().UTC(),
	})
}

// Proxy forwards the request to a fixed upstream path through the session
// layer.
func (s *StorefrontController) Proxy(method, path string) gin.HandlerFunc {
	return func(c *gin.Context) {
		s.forward(c, method, path)
	}
}

// ProxyByID forwards to prefix/<param> for routes addressing one resource.
func (s *StorefrontController) ProxyByID(method, prefix, param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		s.forward(c, method, prefix+"/"+c.Param(param))
	}
}

// EventTickets lists the ticket types on sale for one event.
func (s *StorefrontController) EventTickets(c *gin.Context) {
	s.forward(c, http.MethodGet, "/events/"+c.Param("id")+"/ticket-types")
}

func (s *StorefrontController) forward(c *gin.Context, method, path string) {
	bodyBytes, err := clients.ReadJSONBody(c.Request)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	sm := middleware.SessionFrom(c)
	resp, err := sm.Do(c.Request.Context(), method, path, c.Request.URL.Query(), upstreamHeaders(c.Request.Header), clients.BodyFromBytes(bodyBytes))
	if errors.Is(err, session.ErrSessionExpired) {
		respondSessionExpired(c)
		return
	}
	if err != nil {
		logger.Log.Error("upstream request failed", zap.String("path", path), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "upstream request failed"})
		return
	}

	if err := clients.CopyResponse(c.Writer, resp); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to read upstream response"})
		return
	}
}

// upstreamHeaders strips the browser's cookie and any caller-supplied
// authorization before forwarding; the session manager owns the credential.
func upstreamHeaders(h http.Header) http.Header {
	out := h.Clone()
	out.Del("Cookie")
	out.Del("Authorization")
	return out
}
