package domain

import "time"

type Category struct {
	ID    string `gorm:"primaryKey;size:36" json:"id"`
	Name  string `gorm:"size:32;not null" json:"name"`
	Slug  string `gorm:"uniqueIndex;size:64;not null" json:"slug"`
	Image string `gorm:"size:191" json:"image"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Category) TableName() string { return "categories" }

type CategoryRepository interface {
	Create(c *Category) error
	FindBySlug(slug string) (*Category, error)
	List() ([]Category, error)
	Update(c *Category) error
	DeleteByID(id string) (*Category, error)
	Slugs() ([]SlugRef, error)
}
