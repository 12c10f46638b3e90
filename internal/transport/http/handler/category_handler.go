package handler

import (
	"mime/multipart"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"clindoeil-api/internal/service"
	resp "clindoeil-api/internal/transport/http/response"
	"clindoeil-api/pkg/utils"
)

type CategoryHandler struct {
	catalog    *service.CatalogService
	uploadsDir string
}

func NewCategoryHandler(catalog *service.CatalogService, uploadsDir string) *CategoryHandler {
	return &CategoryHandler{catalog: catalog, uploadsDir: uploadsDir}
}

func (h *CategoryHandler) Create(c *gin.Context) {
	image, err := h.optionalImage(c)
	if err != nil {
		resp.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	cat, err := h.catalog.CreateCategory(c.Request.Context(), c.PostForm("name"), image)
	if err != nil {
		resp.FromError(c, err)
		return
	}
	resp.Created(c, gin.H{"category": cat})
}

func (h *CategoryHandler) List(c *gin.Context) {
	cats, err := h.catalog.ListCategories(c.Request.Context())
	if err != nil {
		resp.FromError(c, err)
		return
	}
	resp.OK(c, gin.H{"categories": cats})
}

func (h *CategoryHandler) Get(c *gin.Context) {
	cat, products, err := h.catalog.CategoryWithProducts(c.Param("slug"))
	if err != nil {
		resp.FromError(c, err)
		return
	}
	resp.OK(c, gin.H{"category": cat, "products": products})
}

func (h *CategoryHandler) Update(c *gin.Context) {
	image, err := h.optionalImage(c)
	if err != nil {
		resp.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	cat, err := h.catalog.UpdateCategory(c.Request.Context(), c.Param("slug"), c.PostForm("name"), image)
	if err != nil {
		resp.FromError(c, err)
		return
	}
	resp.OK(c, gin.H{"category": cat})
}

func (h *CategoryHandler) Delete(c *gin.Context) {
	cat, err := h.catalog.DeleteCategory(c.Request.Context(), c.Param("id"))
	if err != nil {
		resp.FromError(c, err)
		return
	}
	resp.OK(c, gin.H{"category": cat})
}

// optionalImage saves the "image" file when present, returning its public path.
func (h *CategoryHandler) optionalImage(c *gin.Context) (string, error) {
	fh, err := c.FormFile("image")
	if err != nil {
		return "", nil // field absent is fine
	}
	return h.saveImage(c, fh)
}

func (h *CategoryHandler) saveImage(c *gin.Context, fh *multipart.FileHeader) (string, error) {
	name := utils.NewID() + filepath.Ext(fh.Filename)
	dst := filepath.Join(h.uploadsDir, "categories", name)
	if err := c.SaveUploadedFile(fh, dst); err != nil {
		return "", err
	}
	return "/" + filepath.ToSlash(dst), nil
}
