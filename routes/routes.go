package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-bff/controllers"
	"storefront-bff/middleware"
	"storefront-bff/models"
)

func Register(r *gin.Engine, sc *controllers.SessionController, cc *controllers.CartController, fc *controllers.StorefrontController) {
	r.GET("/health", fc.Health)

	bff := r.Group("/bff")

	// Auth flows
	auth := bff.Group("/auth")
	{
		auth.POST("/login", middleware.RateLimitLogin(), sc.Login)
		auth.POST("/logout", sc.Logout)
		auth.GET("/session", sc.Session)
		auth.POST("/register", fc.Proxy(http.MethodPost, "/auth/register"))
		auth.POST("/verify-email", fc.Proxy(http.MethodPost, "/auth/verify-email"))
		auth.POST("/forgot-password", fc.Proxy(http.MethodPost, "/auth/forgot-password"))
	}

	// Cart: per-client, available to guests; checkout needs a principal
	cart := bff.Group("/cart")
	{
		cart.GET("", cc.GetCart)
		cart.POST("/items", cc.AddItem)
		cart.PATCH("/items/:product_id", cc.UpdateQuantity)
		cart.DELETE("/items/:product_id", cc.RemoveItem)
		cart.DELETE("", cc.ClearCart)
		cart.POST("/checkout", middleware.RequireAuth(), cc.Checkout)
	}

	// Public storefront pages
	{
		bff.GET("/home", fc.Home)
		bff.GET("/events", fc.Proxy(http.MethodGet, "/events"))
		bff.GET("/events/:id", fc.ProxyByID(http.MethodGet, "/events", "id"))
		bff.GET("/events/:id/tickets", fc.EventTickets)
		bff.GET("/products", fc.Proxy(http.MethodGet, "/products"))
		bff.GET("/products/:id", fc.ProxyByID(http.MethodGet, "/products", "id"))
		bff.GET("/news", fc.Proxy(http.MethodGet, "/news"))
		bff.GET("/news/:id", fc.ProxyByID(http.MethodGet, "/news", "id"))
		bff.GET("/media", fc.Proxy(http.MethodGet, "/media"))
		bff.GET("/memberships", fc.Proxy(http.MethodGet, "/memberships"))
		bff.POST("/donations", fc.Proxy(http.MethodPost, "/donations"))
	}

	// Account pages
	account := bff.Group("", middleware.RequireAuth())
	{
		account.GET("/orders", fc.Proxy(http.MethodGet, "/orders"))
		account.GET("/orders/:id", fc.ProxyByID(http.MethodGet, "/orders", "id"))
		account.GET("/tickets", fc.Proxy(http.MethodGet, "/tickets"))
		account.GET("/profile", fc.Proxy(http.MethodGet, "/users/profile"))
		account.PUT("/profile", fc.Proxy(http.MethodPut, "/users/profile"))
		account.POST("/memberships/join", fc.Proxy(http.MethodPost, "/memberships/join"))
	}

	// Back office: admin and manager
	admin := bff.Group("/admin", middleware.RequireAdminAccess())
	{
		admin.GET("/reports", fc.Proxy(http.MethodGet, "/admin/reports"))
		admin.GET("/members", fc.Proxy(http.MethodGet, "/admin/members"))
		admin.POST("/events", fc.Proxy(http.MethodPost, "/events"))
		admin.PUT("/events/:id", fc.ProxyByID(http.MethodPut, "/events", "id"))
		admin.DELETE("/events/:id", fc.ProxyByID(http.MethodDelete, "/events", "id"))
		admin.POST("/products", fc.Proxy(http.MethodPost, "/products"))
		admin.PUT("/products/:id", fc.ProxyByID(http.MethodPut, "/products", "id"))
		admin.DELETE("/products/:id", fc.ProxyByID(http.MethodDelete, "/products", "id"))
		admin.POST("/news", fc.Proxy(http.MethodPost, "/news"))
		admin.PUT("/news/:id", fc.ProxyByID(http.MethodPut, "/news", "id"))
		admin.DELETE("/news/:id", fc.ProxyByID(http.MethodDelete, "/news", "id"))
	}

	// Role-specific dashboards
	staff := bff.Group("/staff", middleware.RequireRole(models.RoleStaff))
	{
		staff.GET("/schedule", fc.Proxy(http.MethodGet, "/staff/schedule"))
	}

	auditor := bff.Group("/auditor", middleware.RequireRole(models.RoleAuditor))
	{
		auditor.GET("/audit-log", fc.Proxy(http.MethodGet, "/audit/logs"))
	}

	volunteer := bff.Group("/volunteer", middleware.RequireRole(models.RoleVolunteer))
	{
		volunteer.GET("/shifts", fc.Proxy(http.MethodGet, "/volunteer/shifts"))
	}
}
