package repo

import (
	"errors"

	"gorm.io/gorm"

	"clindoeil-api/internal/domain"
)

type CategoryRepo struct{ db *gorm.DB }

func NewCategoryRepo(db *gorm.DB) *CategoryRepo { return &CategoryRepo{db: db} }

func (r *CategoryRepo) Create(c *domain.Category) error { return r.db.Create(c).Error }

func (r *CategoryRepo) FindBySlug(slug string) (*domain.Category, error) {
	var c domain.Category
	err := r.db.First(&c, "slug = ?", slug).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &c, err
}

func (r *CategoryRepo) List() ([]domain.Category, error) {
	var cats []domain.Category
	err := r.db.Order("created_at desc").Find(&cats).Error
	return cats, err
}

func (r *CategoryRepo) Update(c *domain.Category) error { return r.db.Save(c).Error }

func (r *CategoryRepo) DeleteByID(id string) (*domain.Category, error) {
	var c domain.Category
	err := r.db.First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := r.db.Delete(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CategoryRepo) Slugs() ([]domain.SlugRef, error) {
	var refs []domain.SlugRef
	err := r.db.Model(&domain.Category{}).Select("slug", "updated_at").Find(&refs).Error
	return refs, err
}
