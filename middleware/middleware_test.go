package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"storefront-bff/cart"
	"storefront-bff/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestClientID(t *testing.T) {
	r := gin.New()
	r.Use(ClientID())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ClientIDKey))
	})

	t.Run("assigns a cookie to a new browser", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		r.ServeHTTP(rec, req)

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, ClientCookie, cookies[0].Name)
		assert.NotEmpty(t, cookies[0].Value)
		assert.True(t, cookies[0].HttpOnly)
		assert.Equal(t, cookies[0].Value, rec.Body.String())
	})

	t.Run("reuses an existing cookie", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: ClientCookie, Value: "existing-id"})
		r.ServeHTTP(rec, req)

		assert.Empty(t, rec.Result().Cookies())
		assert.Equal(t, "existing-id", rec.Body.String())
	})
}

func TestWithStateInstallsManagers(t *testing.T) {
	r := gin.New()
	r.Use(ClientID())
	r.Use(WithState(session.NewMemoryStore(), cart.NewMemoryStore(), nil))
	r.GET("/", func(c *gin.Context) {
		sm := SessionFrom(c)
		cm := CartFrom(c)
		c.JSON(http.StatusOK, gin.H{
			"authenticated": sm.IsAuthenticated(),
			"loading":       sm.Loading(),
			"items":         cm.Items(),
		})
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"authenticated":false,"loading":false,"items":[]}`, rec.Body.String())
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(rate.Every(time.Hour), 2)

	limiter := rl.GetLimiter("10.0.0.1")
	assert.True(t, limiter.Allow())
	assert.True(t, limiter.Allow())
	assert.False(t, limiter.Allow())

	// Another IP gets its own bucket.
	assert.True(t, rl.GetLimiter("10.0.0.2").Allow())

	// Same IP returns the same limiter.
	assert.Same(t, limiter, rl.GetLimiter("10.0.0.1"))
}

func TestSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeaders())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}
