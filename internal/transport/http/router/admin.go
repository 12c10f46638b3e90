package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"clindoeil-api/internal/core/auth"
	"clindoeil-api/internal/domain"
	"clindoeil-api/internal/transport/http/handler"
	mdw "clindoeil-api/internal/transport/http/middleware"
)

// AdminDeps collects the back-office engine's handlers.
type AdminDeps struct {
	Log        *zap.Logger
	Users      domain.UserRepository
	Access     *auth.JWTer
	Admin      *handler.AdminHandler
	Products   *handler.ProductHandler
	Categories *handler.CategoryHandler
	Orders     *handler.OrderHandler
}

// NewAdminEngine wires the back office. Every route sits behind the bearer
// gate plus an ADMIN role check.
func NewAdminEngine(d AdminDeps) *gin.Engine {
	r := gin.New()
	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(100, 200),
		mdw.ConcurrencyLimit(100),
		mdw.MaxBodyBytes(32<<20),
		mdw.Timeout(10*time.Second),
		mdw.SimpleRecovery(),
		mdw.Metrics(),
		mdw.AccessLog(d.Log),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	admin := r.Group("/admin/v1")
	admin.Use(mdw.AuthJWT(d.Access, d.Users), mdw.RequireRoles(domain.RoleAdmin))

	admin.GET("/users", d.Admin.ListUsers)
	admin.POST("/users/:id/ban", d.Admin.BanUser)

	admin.POST("/products", d.Products.Create)
	admin.PATCH("/products/:slug", d.Products.Update)
	admin.DELETE("/products/:slug", d.Products.Delete)

	admin.POST("/categories", d.Categories.Create)
	admin.PATCH("/categories/:slug", d.Categories.Update)
	admin.DELETE("/categories/:id", d.Categories.Delete)

	admin.GET("/orders", d.Orders.List)
	admin.GET("/orders/:id", d.Orders.Get)
	admin.PATCH("/orders/:id/status", d.Orders.UpdateStatus)
	admin.DELETE("/orders/:id", d.Orders.Delete)
	admin.POST("/orders/delivery", d.Orders.SendToDelivery)

	return r
}
