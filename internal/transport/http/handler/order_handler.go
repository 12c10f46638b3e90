package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"clindoeil-api/internal/domain"
	"clindoeil-api/internal/service"
	resp "clindoeil-api/internal/transport/http/response"
)

type OrderHandler struct {
	orders *service.OrderService
}

func NewOrderHandler(orders *service.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

func (h *OrderHandler) Create(c *gin.Context) {
	var o domain.Order
	if err := c.ShouldBindJSON(&o); err != nil {
		resp.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.orders.Create(&o); err != nil {
		resp.FromError(c, err)
		return
	}
	resp.Created(c, gin.H{"order": o})
}

func (h *OrderHandler) Get(c *gin.Context) {
	o, err := h.orders.Get(c.Param("id"))
	if err != nil {
		resp.FromError(c, err)
		return
	}
	resp.OK(c, gin.H{"order": o})
}

func (h *OrderHandler) List(c *gin.Context) {
	orders, err := h.orders.List()
	if err != nil {
		resp.FromError(c, err)
		return
	}
	resp.OK(c, gin.H{"orders": orders})
}

func (h *OrderHandler) Delete(c *gin.Context) {
	if err := h.orders.Delete(c.Param("id")); err != nil {
		resp.FromError(c, err)
		return
	}
	resp.OK(c, gin.H{"id": c.Param("id")})
}

type statusIn struct {
	Status string `json:"status"`
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var in statusIn
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	o, err := h.orders.UpdateStatus(c.Param("id"), in.Status)
	if err != nil {
		resp.FromError(c, err)
		return
	}
	resp.OK(c, gin.H{"order": o})
}

// SendToDelivery forwards a batch of parcels to the delivery partner and
// reports one result per parcel.
func (h *OrderHandler) SendToDelivery(c *gin.Context) {
	var parcels []service.DeliveryOrder
	if err := c.ShouldBindJSON(&parcels); err != nil {
		resp.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	if len(parcels) == 0 {
		resp.Fail(c, http.StatusBadRequest, "no orders to send")
		return
	}
	results := h.orders.SendToDelivery(c.Request.Context(), parcels)
	resp.OK(c, gin.H{"results": results})
}
