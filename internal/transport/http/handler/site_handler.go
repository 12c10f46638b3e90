package handler

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"clindoeil-api/internal/core/cache"
	"clindoeil-api/internal/service"
	resp "clindoeil-api/internal/transport/http/response"
)

const (
	sitemapKey = "site:sitemap"
	sitemapTTL = 24 * time.Hour
)

// staticPages are the storefront's fixed top-level pages, alongside the home
// page which is listed separately with its own priority.
var staticPages = []string{
	"/about",
	"/contact",
	"/shop",
	"/terms-of-service",
	"/returns-refunds",
	"/privacy-policy",
}

// SiteHandler serves the crawler surface: sitemap.xml built from live catalog
// slugs and a static robots.txt.
type SiteHandler struct {
	catalog *service.CatalogService
	cache   *cache.Cache
	baseURL string
	log     *zap.Logger
}

func NewSiteHandler(catalog *service.CatalogService, c *cache.Cache, baseURL string, log *zap.Logger) *SiteHandler {
	return &SiteHandler{catalog: catalog, cache: c, baseURL: strings.TrimRight(baseURL, "/"), log: log}
}

func (h *SiteHandler) Sitemap(c *gin.Context) {
	load := func(ctx context.Context) ([]byte, error) { return h.build() }

	var body []byte
	var err error
	if h.cache != nil {
		body, err = h.cache.GetOrLoad(c.Request.Context(), sitemapKey, sitemapTTL, load)
	} else {
		body, err = h.build()
	}
	if err != nil {
		h.log.Error("build sitemap", zap.Error(err))
		resp.Fail(c, http.StatusInternalServerError, "internal server error")
		return
	}
	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, "application/xml; charset=utf-8", body)
}

func (h *SiteHandler) Robots(c *gin.Context) {
	var b strings.Builder
	b.WriteString("User-agent: *\n")
	b.WriteString("Disallow: /admin/\n")
	b.WriteString("Disallow: /api/\n\n")
	b.WriteString("Sitemap: " + h.baseURL + "/sitemap.xml\n")
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(b.String()))
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

func (h *SiteHandler) build() ([]byte, error) {
	products, categories, err := h.catalog.SitemapRefs()
	if err != nil {
		return nil, err
	}

	set := urlSet{XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9"}
	set.URLs = append(set.URLs, sitemapURL{Loc: h.baseURL + "/", ChangeFreq: "daily", Priority: "1.0"})
	for _, page := range staticPages {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:        h.baseURL + page,
			ChangeFreq: "monthly",
			Priority:   "0.5",
		})
	}
	for _, cat := range categories {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:        h.baseURL + "/category/" + cat.Slug,
			LastMod:    cat.UpdatedAt.Format("2006-01-02"),
			ChangeFreq: "weekly",
			Priority:   "0.8",
		})
	}
	for _, p := range products {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:        h.baseURL + "/product/" + p.Slug,
			LastMod:    p.UpdatedAt.Format("2006-01-02"),
			ChangeFreq: "weekly",
			Priority:   "0.6",
		})
	}

	out, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal sitemap: %w", err)
	}
	return append([]byte(xml.Header), out...), nil
}
