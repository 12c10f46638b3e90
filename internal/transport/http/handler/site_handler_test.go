package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"clindoeil-api/internal/domain"
	"clindoeil-api/internal/repo/repotest"
	"clindoeil-api/internal/service"
)

func newSiteRouter(t *testing.T) *gin.Engine {
	t.Helper()
	catalog := service.NewCatalogService(repotest.NewProducts(), repotest.NewCategories(), nil, zap.NewNop())
	ctx := context.Background()
	require.NoError(t, catalog.CreateProduct(ctx, &domain.Product{Title: "Table Basse", Price: 99}))
	_, err := catalog.CreateCategory(ctx, "Salon", "")
	require.NoError(t, err)

	h := NewSiteHandler(catalog, nil, "https://www.clindoeil.tn/", zap.NewNop())
	r := gin.New()
	r.GET("/sitemap.xml", h.Sitemap)
	r.GET("/robots.txt", h.Robots)
	return r
}

func TestSitemap(t *testing.T) {
	r := newSiteRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/sitemap.xml", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/xml")
	assert.Equal(t, "public, max-age=86400", w.Header().Get("Cache-Control"))

	body := w.Body.String()
	assert.Contains(t, body, `<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`)
	assert.Contains(t, body, "<loc>https://www.clindoeil.tn/</loc>")
	assert.Contains(t, body, "<loc>https://www.clindoeil.tn/about</loc>")
	assert.Contains(t, body, "<loc>https://www.clindoeil.tn/shop</loc>")
	assert.Contains(t, body, "<loc>https://www.clindoeil.tn/privacy-policy</loc>")
	assert.Contains(t, body, "<loc>https://www.clindoeil.tn/product/table-basse</loc>")
	assert.Contains(t, body, "<loc>https://www.clindoeil.tn/category/salon</loc>")
}

func TestRobots(t *testing.T) {
	r := newSiteRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/robots.txt", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "User-agent: *")
	assert.Contains(t, body, "Disallow: /admin/")
	assert.Contains(t, body, "Sitemap: https://www.clindoeil.tn/sitemap.xml")
}
