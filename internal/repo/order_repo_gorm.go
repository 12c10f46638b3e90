package repo

import (
	"errors"

	"gorm.io/gorm"

	"clindoeil-api/internal/domain"
)

type OrderRepo struct{ db *gorm.DB }

func NewOrderRepo(db *gorm.DB) *OrderRepo { return &OrderRepo{db: db} }

func (r *OrderRepo) Create(o *domain.Order) error { return r.db.Create(o).Error }

func (r *OrderRepo) FindByID(id string) (*domain.Order, error) {
	var o domain.Order
	err := r.db.First(&o, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &o, err
}

func (r *OrderRepo) List() ([]domain.Order, error) {
	var orders []domain.Order
	err := r.db.Order("created_at desc").Find(&orders).Error
	return orders, err
}

func (r *OrderRepo) DeleteByID(id string) error {
	res := r.db.Where("id = ?", id).Delete(&domain.Order{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *OrderRepo) UpdateStatus(id, status string) (*domain.Order, error) {
	res := r.db.Model(&domain.Order{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrNotFound
	}
	return r.FindByID(id)
}
