package repo

import (
	"errors"
	"math"
	"strings"

	"gorm.io/gorm"

	"clindoeil-api/internal/domain"
)

type ProductRepo struct{ db *gorm.DB }

func NewProductRepo(db *gorm.DB) *ProductRepo { return &ProductRepo{db: db} }

func (r *ProductRepo) Create(p *domain.Product) error { return r.db.Create(p).Error }

func (r *ProductRepo) FindBySlug(slug string) (*domain.Product, error) {
	var p domain.Product
	err := r.db.First(&p, "slug = ?", slug).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &p, err
}

func (r *ProductRepo) Update(p *domain.Product) error { return r.db.Save(p).Error }

func (r *ProductRepo) DeleteBySlug(slug string) (*domain.Product, error) {
	p, err := r.FindBySlug(slug)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, nil
	}
	if err := r.db.Delete(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

func (r *ProductRepo) List(f domain.ProductFilter, sort string, page, perPage int) (*domain.ProductPage, error) {
	q := r.db.Model(&domain.Product{})
	q = applyFilter(q, f)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, err
	}

	var products []domain.Product
	err := q.Order(orderClause(sort)).
		Offset(page * perPage).
		Limit(perPage).
		Find(&products).Error
	if err != nil {
		return nil, err
	}

	return &domain.ProductPage{
		Products:   products,
		Total:      total,
		TotalPages: int(math.Ceil(float64(total) / float64(perPage))),
		Page:       page,
	}, nil
}

func (r *ProductRepo) Latest(category string, limit int) ([]domain.Product, error) {
	q := r.db.Model(&domain.Product{})
	if category != "" && category != "all" {
		q = q.Where("category = ?", category)
	}
	var products []domain.Product
	err := q.Order("updated_at desc").Limit(limit).Find(&products).Error
	return products, err
}

func (r *ProductRepo) Slugs() ([]domain.SlugRef, error) {
	var refs []domain.SlugRef
	err := r.db.Model(&domain.Product{}).Select("slug", "updated_at").Find(&refs).Error
	return refs, err
}

func applyFilter(q *gorm.DB, f domain.ProductFilter) *gorm.DB {
	if len(f.Categories) > 0 {
		q = q.Where("LOWER(category) IN ?", lowerAll(f.Categories))
	}
	if f.PriceMin != nil {
		q = q.Where("price >= ?", *f.PriceMin)
	}
	if f.PriceMax != nil {
		q = q.Where("price <= ?", *f.PriceMax)
	}
	// Colors and sizes live in JSON columns; a LIKE match on the serialized
	// name keeps the query portable across mysql and postgres. A product
	// matches when it carries any of the requested names.
	q = whereAnyJSONName(q, "colors", f.Colors)
	q = whereAnyJSONName(q, "sizes", f.Sizes)
	return q
}

func whereAnyJSONName(q *gorm.DB, column string, names []string) *gorm.DB {
	if len(names) == 0 {
		return q
	}
	likes := make([]string, len(names))
	args := make([]interface{}, len(names))
	for i, n := range names {
		likes[i] = column + " LIKE ?"
		args[i] = `%"name":` + jsonString(n) + `%`
	}
	return q.Where(strings.Join(likes, " OR "), args...)
}

func orderClause(sort string) string {
	switch sort {
	case domain.SortBest:
		return "sold desc"
	case domain.SortPriceAsc:
		return "price asc"
	case domain.SortPriceDesc:
		return "price desc"
	default: // SortNew
		return "created_at desc"
	}
}
