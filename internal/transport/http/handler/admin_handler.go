package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"clindoeil-api/internal/service"
	resp "clindoeil-api/internal/transport/http/response"
)

// AdminHandler backs the back-office user surface.
type AdminHandler struct {
	users *service.UserService
}

func NewAdminHandler(users *service.UserService) *AdminHandler {
	return &AdminHandler{users: users}
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	users, total, err := h.users.List(offset, limit)
	if err != nil {
		resp.FromError(c, err)
		return
	}
	resp.OK(c, gin.H{"total": total, "users": users})
}

func (h *AdminHandler) BanUser(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		resp.Fail(c, http.StatusBadRequest, "missing id")
		return
	}
	if err := h.users.Ban(id); err != nil {
		resp.FromError(c, err)
		return
	}
	resp.OK(c, gin.H{"id": id})
}
