package repotest

import (
	"sort"
	"strings"
	"sync"
	"time"

	"clindoeil-api/internal/domain"
)

type Products struct {
	mu    sync.Mutex
	byID  map[string]*domain.Product
	clock time.Time
}

func NewProducts() *Products {
	return &Products{byID: map[string]*domain.Product{}, clock: time.Now()}
}

func cloneProduct(p *domain.Product) *domain.Product { c := *p; return &c }

func (s *Products) Create(p *domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clock = s.clock.Add(time.Second)
	p.CreatedAt = s.clock
	p.UpdatedAt = s.clock
	s.byID[p.ID] = cloneProduct(p)
	return nil
}

func (s *Products) FindBySlug(slug string) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.byID {
		if p.Slug == slug {
			return cloneProduct(p), nil
		}
	}
	return nil, nil
}

func (s *Products) Update(p *domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clock = s.clock.Add(time.Second)
	p.UpdatedAt = s.clock
	s.byID[p.ID] = cloneProduct(p)
	return nil
}

func (s *Products) DeleteBySlug(slug string) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, p := range s.byID {
		if p.Slug == slug {
			delete(s.byID, id)
			return p, nil
		}
	}
	return nil, nil
}

func (s *Products) List(f domain.ProductFilter, sortBy string, page, perPage int) (*domain.ProductPage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var all []domain.Product
	for _, p := range s.byID {
		if len(f.Categories) > 0 && !containsFold(f.Categories, p.Category) {
			continue
		}
		if len(f.Colors) > 0 && !hasAnyColor(p.Colors, f.Colors) {
			continue
		}
		if len(f.Sizes) > 0 && !hasAnySize(p.Sizes, f.Sizes) {
			continue
		}
		if f.PriceMin != nil && p.Price < *f.PriceMin {
			continue
		}
		if f.PriceMax != nil && p.Price > *f.PriceMax {
			continue
		}
		all = append(all, *p)
	}
	sort.Slice(all, func(i, j int) bool {
		switch sortBy {
		case domain.SortPriceAsc:
			return all[i].Price < all[j].Price
		case domain.SortPriceDesc:
			return all[i].Price > all[j].Price
		case domain.SortBest:
			return all[i].Sold > all[j].Sold
		default:
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
	})

	total := int64(len(all))
	pages := int(total) / perPage
	if int(total)%perPage != 0 {
		pages++
	}
	start := page * perPage
	if start > len(all) {
		start = len(all)
	}
	end := start + perPage
	if end > len(all) {
		end = len(all)
	}
	return &domain.ProductPage{Products: all[start:end], Total: total, TotalPages: pages, Page: page}, nil
}

func (s *Products) Latest(category string, limit int) ([]domain.Product, error) {
	page, err := s.List(domain.ProductFilter{Categories: catFilter(category)}, domain.SortNew, 0, limit)
	if err != nil {
		return nil, err
	}
	return page.Products, nil
}

func (s *Products) Slugs() ([]domain.SlugRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.SlugRef
	for _, p := range s.byID {
		out = append(out, domain.SlugRef{Slug: p.Slug, UpdatedAt: p.UpdatedAt})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out, nil
}

type Categories struct {
	mu   sync.Mutex
	byID map[string]*domain.Category
}

func NewCategories() *Categories {
	return &Categories{byID: map[string]*domain.Category{}}
}

func cloneCategory(c *domain.Category) *domain.Category { d := *c; return &d }

func (s *Categories) Create(c *domain.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[c.ID] = cloneCategory(c)
	return nil
}

func (s *Categories) FindBySlug(slug string) (*domain.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.byID {
		if c.Slug == slug {
			return cloneCategory(c), nil
		}
	}
	return nil, nil
}

func (s *Categories) List() ([]domain.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Category
	for _, c := range s.byID {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Categories) Update(c *domain.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[c.ID] = cloneCategory(c)
	return nil
}

func (s *Categories) DeleteByID(id string) (*domain.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.byID[id]
	if !ok {
		return nil, nil
	}
	delete(s.byID, id)
	return c, nil
}

func (s *Categories) Slugs() ([]domain.SlugRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.SlugRef
	for _, c := range s.byID {
		out = append(out, domain.SlugRef{Slug: c.Slug, UpdatedAt: c.UpdatedAt})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out, nil
}

type Orders struct {
	mu    sync.Mutex
	byID  map[string]*domain.Order
	clock time.Time
}

func NewOrders() *Orders {
	return &Orders{byID: map[string]*domain.Order{}, clock: time.Now()}
}

func cloneOrder(o *domain.Order) *domain.Order { c := *o; return &c }

func (s *Orders) Create(o *domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clock = s.clock.Add(time.Second)
	o.CreatedAt = s.clock
	o.UpdatedAt = s.clock
	s.byID[o.ID] = cloneOrder(o)
	return nil
}

func (s *Orders) FindByID(id string) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.byID[id]
	if !ok {
		return nil, nil
	}
	return cloneOrder(o), nil
}

func (s *Orders) List() ([]domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Order
	for _, o := range s.byID {
		out = append(out, *o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Orders) DeleteByID(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.byID, id)
	return nil
}

func (s *Orders) UpdateStatus(id, status string) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	o.Status = status
	return cloneOrder(o), nil
}

func hasAnyColor(colors []domain.Color, wanted []string) bool {
	for _, w := range wanted {
		for _, c := range colors {
			if c.Name == w {
				return true
			}
		}
	}
	return false
}

func hasAnySize(sizes []domain.Size, wanted []string) bool {
	for _, w := range wanted {
		for _, s := range sizes {
			if s.Name == w {
				return true
			}
		}
	}
	return false
}

func containsFold(haystack []string, needle string) bool {
	for _, h := range haystack {
		if strings.EqualFold(h, needle) {
			return true
		}
	}
	return false
}

func catFilter(category string) []string {
	if category == "" {
		return nil
	}
	return []string{category}
}
