package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"clindoeil-api/internal/core/auth"
	"clindoeil-api/internal/core/config"
	"clindoeil-api/internal/core/server"
	"clindoeil-api/internal/domain"
	"clindoeil-api/internal/transport/http/handler"
	mdw "clindoeil-api/internal/transport/http/middleware"
)

// APIDeps collects everything the storefront engine mounts.
type APIDeps struct {
	Log        *zap.Logger
	Cfg        *config.Config
	Users      domain.UserRepository
	Access     *auth.JWTer
	Auth       *handler.AuthHandler
	Products   *handler.ProductHandler
	Categories *handler.CategoryHandler
	Orders     *handler.OrderHandler
	Ecwid      *handler.EcwidHandler
	Site       *handler.SiteHandler
}

// NewAPIEngine wires the public storefront surface: the auth lifecycle, the
// catalog, orders and the Ecwid relay under /api, with the crawler endpoints
// and uploads at the root.
func NewAPIEngine(d APIDeps) *gin.Engine {
	r := server.NewRouter(d.Log, d.Cfg.App.ClientOrigins)
	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(32<<20),
		mdw.Timeout(15*time.Second),
		mdw.Metrics(),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/sitemap.xml", d.Site.Sitemap)
	r.GET("/robots.txt", d.Site.Robots)
	r.Static("/uploads", d.Cfg.Site.UploadsDir)

	api := r.Group("/api")

	// Auth lifecycle. The tight per-IP bucket slows credential stuffing.
	authGrp := api.Group("/auth", mdw.RateLimitPerIP(1, 10))
	{
		authGrp.POST("/register", d.Auth.Register)
		authGrp.POST("/login", d.Auth.Login)
		authGrp.GET("/logout", d.Auth.Logout)
		authGrp.GET("/refresh", d.Auth.Refresh)
		authGrp.GET("/verify-email/:token", d.Auth.VerifyEmail)
		authGrp.POST("/forgot-password", d.Auth.ForgotPassword)
		authGrp.PATCH("/reset-password/:token", d.Auth.ResetPassword)

		protected := authGrp.Group("", mdw.AuthJWT(d.Access, d.Users))
		protected.PATCH("/update-password", d.Auth.UpdatePassword)
		protected.GET("/me", d.Auth.Me)
	}

	// Catalog.
	products := api.Group("/products")
	{
		products.POST("", d.Products.Create)
		products.POST("/list", d.Products.List)
		products.GET("/newArrivals", d.Products.NewArrivals)
		products.GET("/:slug", d.Products.Get)
		products.PATCH("/:slug", d.Products.Update)
		products.DELETE("/:slug", d.Products.Delete)
		products.POST("/category/:category", d.Products.ByCategory)
	}

	categories := api.Group("/categories")
	{
		categories.POST("", d.Categories.Create)
		categories.GET("", d.Categories.List)
		categories.GET("/:slug", d.Categories.Get)
		categories.PATCH("/:slug", d.Categories.Update)
		categories.DELETE("/:id", d.Categories.Delete)
	}

	// Orders and delivery sync.
	orders := api.Group("/orders")
	{
		orders.POST("", d.Orders.Create)
		orders.GET("", d.Orders.List)
		orders.GET("/:id", d.Orders.Get)
		orders.PATCH("/:id/status", d.Orders.UpdateStatus)
		orders.DELETE("/:id", d.Orders.Delete)
		orders.POST("/delivery", d.Orders.SendToDelivery)
	}

	// Ecwid relay.
	ecwid := api.Group("/ecwid")
	{
		ecwid.GET("/products", d.Ecwid.Products)
		ecwid.GET("/products/:id", d.Ecwid.Product)
		ecwid.GET("/categories", d.Ecwid.Categories)
		ecwid.GET("/orders", d.Ecwid.Orders)
		ecwid.GET("/profile", d.Ecwid.Profile)
		ecwid.POST("/webhook", d.Ecwid.Webhook)
	}

	return r
}
