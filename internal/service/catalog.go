package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	goslug "github.com/gosimple/slug"
	"go.uber.org/zap"

	"clindoeil-api/internal/core/cache"
	"clindoeil-api/internal/domain"
	"clindoeil-api/pkg/utils"
)

const (
	productCacheTTL  = 10 * time.Minute
	categoryCacheTTL = 10 * time.Minute

	keyCategories = "catalog:categories"
)

func productKey(slug string) string { return "catalog:product:" + slug }

// CatalogService owns products and categories: CRUD, filtered listings and
// the cached read paths the storefront hits hardest.
type CatalogService struct {
	products   domain.ProductRepository
	categories domain.CategoryRepository
	cache      *cache.Cache
	log        *zap.Logger
}

func NewCatalogService(products domain.ProductRepository, categories domain.CategoryRepository, c *cache.Cache, log *zap.Logger) *CatalogService {
	return &CatalogService{products: products, categories: categories, cache: c, log: log}
}

// ---- products ----

func (s *CatalogService) CreateProduct(ctx context.Context, p *domain.Product) error {
	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if p.ID == "" {
		p.ID = utils.NewID()
	}
	p.Slug = goslug.Make(p.Title)
	if err := s.products.Create(p); err != nil {
		return err
	}
	s.invalidate(ctx, productKey(p.Slug))
	return nil
}

func (s *CatalogService) GetProduct(ctx context.Context, slug string) (*domain.Product, error) {
	p, err := cache.GetOrLoadJSON(s.cache, ctx, productKey(slug), productCacheTTL, func(ctx context.Context) (*domain.Product, error) {
		return s.products.FindBySlug(slug)
	})
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

// UpdateProduct reconciles the media gallery: entries whose IDs are in
// keepMediaIDs survive, the rest are removed from disk, and newMedia is
// appended. Colors without a freshly uploaded image keep their old one.
func (s *CatalogService) UpdateProduct(ctx context.Context, slug string, in *domain.Product, keepMediaIDs []string, newMedia []domain.Media) (*domain.Product, error) {
	existing, err := s.products.FindBySlug(slug)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, domain.ErrNotFound
	}

	keep := make(map[string]bool, len(keepMediaIDs))
	for _, id := range keepMediaIDs {
		keep[id] = true
	}
	var kept []domain.Media
	for _, m := range existing.Media {
		if keep[m.ID] {
			kept = append(kept, m)
		} else {
			s.removeFile(m.Src)
		}
	}
	in.Media = append(kept, newMedia...)

	for i := range in.Colors {
		if in.Colors[i].Src != "" || in.Colors[i].ID == "" {
			continue
		}
		for _, old := range existing.Colors {
			if old.ID == in.Colors[i].ID {
				in.Colors[i].Src = old.Src
				in.Colors[i].Alt = old.Alt
				break
			}
		}
	}

	in.ID = existing.ID
	in.CreatedAt = existing.CreatedAt
	// Sold never comes from the edit form; a full-row save must not reset it.
	in.Sold = existing.Sold
	if in.Title != "" {
		in.Slug = goslug.Make(in.Title)
	} else {
		in.Title = existing.Title
		in.Slug = existing.Slug
	}

	if err := s.products.Update(in); err != nil {
		return nil, err
	}
	s.invalidate(ctx, productKey(slug), productKey(in.Slug))
	return in, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, slug string) (*domain.Product, error) {
	p, err := s.products.DeleteBySlug(slug)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	for _, m := range p.Media {
		s.removeFile(m.Src)
	}
	s.invalidate(ctx, productKey(slug))
	return p, nil
}

func (s *CatalogService) ListProducts(f domain.ProductFilter, sort string, page, perPage int) (*domain.ProductPage, error) {
	if page < 0 {
		page = 0
	}
	if perPage < 1 {
		perPage = 12
	}
	return s.products.List(f, sort, page, perPage)
}

func (s *CatalogService) ProductsByCategory(category string, f domain.ProductFilter, sort string, page, perPage int) (*domain.ProductPage, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, fmt.Errorf("%w: category is required", domain.ErrValidation)
	}
	f.Categories = []string{category}
	return s.ListProducts(f, sort, page, perPage)
}

func (s *CatalogService) NewArrivals(category string) ([]domain.Product, error) {
	return s.products.Latest(category, 4)
}

// ---- categories ----

func (s *CatalogService) CreateCategory(ctx context.Context, name, image string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if len(name) < 2 || len(name) > 32 {
		return nil, fmt.Errorf("%w: name must be between 2 and 32 characters", domain.ErrValidation)
	}
	c := &domain.Category{
		ID:    utils.NewID(),
		Name:  name,
		Slug:  goslug.Make(name),
		Image: image,
	}
	if err := s.categories.Create(c); err != nil {
		return nil, err
	}
	s.invalidate(ctx, keyCategories)
	return c, nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	out, err := cache.GetOrLoadJSON(s.cache, ctx, keyCategories, categoryCacheTTL, func(ctx context.Context) (*[]domain.Category, error) {
		cats, e := s.categories.List()
		return &cats, e
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, nil
	}
	return *out, nil
}

// CategoryWithProducts mirrors the storefront's category page payload.
func (s *CatalogService) CategoryWithProducts(slug string) (*domain.Category, []domain.Product, error) {
	c, err := s.categories.FindBySlug(slug)
	if err != nil {
		return nil, nil, err
	}
	if c == nil {
		return nil, nil, domain.ErrNotFound
	}
	page, err := s.products.List(domain.ProductFilter{Categories: []string{c.Name}}, domain.SortNew, 0, 100)
	if err != nil {
		return nil, nil, err
	}
	return c, page.Products, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, slug, name, image string) (*domain.Category, error) {
	c, err := s.categories.FindBySlug(slug)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	if name != "" {
		c.Name = name
		c.Slug = goslug.Make(name)
	}
	if image != "" {
		s.removeFile(c.Image)
		c.Image = image
	}
	if err := s.categories.Update(c); err != nil {
		return nil, err
	}
	s.invalidate(ctx, keyCategories)
	return c, nil
}

func (s *CatalogService) DeleteCategory(ctx context.Context, id string) (*domain.Category, error) {
	c, err := s.categories.DeleteByID(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	s.removeFile(c.Image)
	s.invalidate(ctx, keyCategories)
	return c, nil
}

// ---- sitemap projections ----

func (s *CatalogService) SitemapRefs() (products, categories []domain.SlugRef, err error) {
	products, err = s.products.Slugs()
	if err != nil {
		return nil, nil, err
	}
	categories, err = s.categories.Slugs()
	if err != nil {
		return nil, nil, err
	}
	return products, categories, nil
}

func (s *CatalogService) invalidate(ctx context.Context, keys ...string) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, keys...)
	}
}

// removeFile deletes an uploaded asset referenced as "/uploads/...". Errors
// are logged, never fatal: a missing file must not block a catalog write.
func (s *CatalogService) removeFile(src string) {
	if src == "" {
		return
	}
	path := filepath.Clean(strings.TrimPrefix(src, "/"))
	if !strings.HasPrefix(path, "uploads") {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		s.log.Warn("delete upload", zap.String("path", path), zap.Error(err))
	}
}
