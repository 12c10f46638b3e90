package handler

import (
	"context"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"clindoeil-api/internal/ecwid"
	resp "clindoeil-api/internal/transport/http/response"
)

// EcwidHandler relays storefront calls to the Ecwid API, passing the
// upstream status and body through untouched.
type EcwidHandler struct {
	client *ecwid.Client
	log    *zap.Logger
}

func NewEcwidHandler(client *ecwid.Client, log *zap.Logger) *EcwidHandler {
	return &EcwidHandler{client: client, log: log}
}

func (h *EcwidHandler) Products(c *gin.Context) {
	h.relay(c, func(ctx context.Context) (*ecwid.Response, error) {
		return h.client.Products(ctx, url.Values(c.Request.URL.Query()))
	})
}

func (h *EcwidHandler) Product(c *gin.Context) {
	h.relay(c, func(ctx context.Context) (*ecwid.Response, error) {
		return h.client.Product(ctx, c.Param("id"))
	})
}

func (h *EcwidHandler) Categories(c *gin.Context) {
	h.relay(c, func(ctx context.Context) (*ecwid.Response, error) {
		return h.client.Categories(ctx)
	})
}

func (h *EcwidHandler) Orders(c *gin.Context) {
	h.relay(c, func(ctx context.Context) (*ecwid.Response, error) {
		return h.client.Orders(ctx, url.Values(c.Request.URL.Query()))
	})
}

func (h *EcwidHandler) Profile(c *gin.Context) {
	h.relay(c, func(ctx context.Context) (*ecwid.Response, error) {
		return h.client.Profile(ctx)
	})
}

// Webhook acknowledges Ecwid event notifications. Events are logged and
// accepted; processing happens out of band.
func (h *EcwidHandler) Webhook(c *gin.Context) {
	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		resp.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	h.log.Info("ecwid webhook", zap.Any("event", payload))
	resp.OK(c, gin.H{"received": true})
}

func (h *EcwidHandler) relay(c *gin.Context, call func(ctx context.Context) (*ecwid.Response, error)) {
	r, err := call(c.Request.Context())
	if err != nil {
		h.log.Warn("ecwid upstream", zap.Error(err))
		resp.Fail(c, http.StatusBadGateway, "upstream request failed")
		return
	}
	c.Data(r.Status, "application/json", r.Body)
}
