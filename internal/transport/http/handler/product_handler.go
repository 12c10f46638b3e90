package handler

import (
	"encoding/json"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"clindoeil-api/internal/domain"
	"clindoeil-api/internal/service"
	resp "clindoeil-api/internal/transport/http/response"
	"clindoeil-api/pkg/utils"
)

type ProductHandler struct {
	catalog    *service.CatalogService
	uploadsDir string
}

func NewProductHandler(catalog *service.CatalogService, uploadsDir string) *ProductHandler {
	return &ProductHandler{catalog: catalog, uploadsDir: uploadsDir}
}

// Create accepts a multipart form: scalar fields plus JSON-encoded colors,
// sizes and ficheTech, media files under "media" and per-color images under
// "colorImages".
func (h *ProductHandler) Create(c *gin.Context) {
	p, _, newMedia, err := h.parseForm(c)
	if err != nil {
		resp.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	p.Media = newMedia
	if err := h.catalog.CreateProduct(c.Request.Context(), p); err != nil {
		resp.FromError(c, err)
		return
	}
	resp.Created(c, gin.H{"product": p})
}

func (h *ProductHandler) Get(c *gin.Context) {
	p, err := h.catalog.GetProduct(c.Request.Context(), c.Param("slug"))
	if err != nil {
		resp.FromError(c, err)
		return
	}
	resp.OK(c, gin.H{"product": p})
}

func (h *ProductHandler) Update(c *gin.Context) {
	p, keepMediaIDs, newMedia, err := h.parseForm(c)
	if err != nil {
		resp.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	out, err := h.catalog.UpdateProduct(c.Request.Context(), c.Param("slug"), p, keepMediaIDs, newMedia)
	if err != nil {
		resp.FromError(c, err)
		return
	}
	resp.OK(c, gin.H{"product": out})
}

func (h *ProductHandler) Delete(c *gin.Context) {
	p, err := h.catalog.DeleteProduct(c.Request.Context(), c.Param("slug"))
	if err != nil {
		resp.FromError(c, err)
		return
	}
	resp.OK(c, gin.H{"product": p})
}

type listIn struct {
	Categories []string `json:"categories"`
	Colors     []string `json:"colors"`
	Sizes      []string `json:"sizes"`
	PriceMin   *float64 `json:"priceMin"`
	PriceMax   *float64 `json:"priceMax"`
	Sort       string   `json:"sort"`
	Page       int      `json:"page"`
	PerPage    int      `json:"perPage"`
}

// List takes its filters in the body so the storefront can POST the whole
// filter panel state in one go.
func (h *ProductHandler) List(c *gin.Context) {
	var in listIn
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	page, err := h.catalog.ListProducts(domain.ProductFilter{
		Categories: in.Categories,
		Colors:     in.Colors,
		Sizes:      in.Sizes,
		PriceMin:   in.PriceMin,
		PriceMax:   in.PriceMax,
	}, in.Sort, in.Page, in.PerPage)
	if err != nil {
		resp.FromError(c, err)
		return
	}
	resp.OK(c, page)
}

func (h *ProductHandler) ByCategory(c *gin.Context) {
	var in listIn
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	page, err := h.catalog.ProductsByCategory(c.Param("category"), domain.ProductFilter{
		Colors:   in.Colors,
		Sizes:    in.Sizes,
		PriceMin: in.PriceMin,
		PriceMax: in.PriceMax,
	}, in.Sort, in.Page, in.PerPage)
	if err != nil {
		resp.FromError(c, err)
		return
	}
	resp.OK(c, page)
}

func (h *ProductHandler) NewArrivals(c *gin.Context) {
	products, err := h.catalog.NewArrivals(c.Query("category"))
	if err != nil {
		resp.FromError(c, err)
		return
	}
	resp.OK(c, gin.H{"products": products})
}

// parseForm decodes the multipart product form shared by Create and Update.
func (h *ProductHandler) parseForm(c *gin.Context) (p *domain.Product, keepMediaIDs []string, newMedia []domain.Media, err error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil, nil, err
	}

	p = &domain.Product{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Category:    c.PostForm("category"),
	}
	p.Price, _ = strconv.ParseFloat(c.PostForm("price"), 64)
	p.Promotion, _ = strconv.ParseFloat(c.PostForm("promotion"), 64)
	p.Quantity, _ = strconv.Atoi(c.PostForm("quantity"))

	if err := decodeJSONField(c.PostForm("colors"), &p.Colors); err != nil {
		return nil, nil, nil, err
	}
	if err := decodeJSONField(c.PostForm("sizes"), &p.Sizes); err != nil {
		return nil, nil, nil, err
	}
	if err := decodeJSONField(c.PostForm("ficheTech"), &p.FicheTech); err != nil {
		return nil, nil, nil, err
	}
	if err := decodeJSONField(c.PostForm("keepMedia"), &keepMediaIDs); err != nil {
		return nil, nil, nil, err
	}

	for _, fh := range form.File["media"] {
		src, err := h.saveUpload(c, fh)
		if err != nil {
			return nil, nil, nil, err
		}
		newMedia = append(newMedia, domain.Media{
			ID:   utils.NewID(),
			Src:  src,
			Type: mediaType(fh),
			Alt:  p.Title,
		})
	}

	// Color images arrive in the same order as colors that need one.
	colorFiles := form.File["colorImages"]
	fi := 0
	for i := range p.Colors {
		if p.Colors[i].ID == "" {
			p.Colors[i].ID = utils.NewID()
		}
		if p.Colors[i].Src != "" || fi >= len(colorFiles) {
			continue
		}
		src, err := h.saveUpload(c, colorFiles[fi])
		if err != nil {
			return nil, nil, nil, err
		}
		p.Colors[i].Src = src
		p.Colors[i].Alt = p.Colors[i].Name
		fi++
	}
	return p, keepMediaIDs, newMedia, nil
}

func (h *ProductHandler) saveUpload(c *gin.Context, fh *multipart.FileHeader) (string, error) {
	name := utils.NewID() + filepath.Ext(fh.Filename)
	dst := filepath.Join(h.uploadsDir, "media", name)
	if err := c.SaveUploadedFile(fh, dst); err != nil {
		return "", err
	}
	return "/" + filepath.ToSlash(dst), nil
}

func decodeJSONField(raw string, out any) error {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	return json.Unmarshal([]byte(raw), out)
}

func mediaType(fh *multipart.FileHeader) string {
	if strings.HasPrefix(fh.Header.Get("Content-Type"), "video/") {
		return "video"
	}
	return "image"
}
