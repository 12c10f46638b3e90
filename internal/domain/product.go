package domain

import "time"

// Sort orders accepted by the product listing endpoints. The string values
// come straight from the storefront UI.
const (
	SortNew       = "new"
	SortBest      = "best"
	SortPriceAsc  = "Price: Low to High"
	SortPriceDesc = "Price: High to Low"
)

type Media struct {
	ID   string `json:"id,omitempty"`
	Src  string `json:"src"`
	Type string `json:"type"` // "image" or "video"
	Alt  string `json:"alt"`
}

type Color struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
	Src  string `json:"src,omitempty"`
	Alt  string `json:"alt,omitempty"`
}

type Size struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type SpecEntry struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type Product struct {
	ID          string  `gorm:"primaryKey;size:36" json:"id"`
	Title       string  `gorm:"size:191;not null" json:"title"`
	Slug        string  `gorm:"uniqueIndex;size:191;not null" json:"slug"`
	Description string  `gorm:"type:text" json:"description"`
	Category    string  `gorm:"size:64;index" json:"category"`
	Price       float64 `gorm:"not null" json:"price"`
	Promotion   float64 `json:"promotion"`
	Quantity    int     `json:"quantity"`
	Sold        int     `json:"sold"`

	Colors    []Color     `gorm:"serializer:json" json:"colors"`
	Sizes     []Size      `gorm:"serializer:json" json:"sizes"`
	FicheTech []SpecEntry `gorm:"serializer:json" json:"ficheTech"`
	Media     []Media     `gorm:"serializer:json" json:"media"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Product) TableName() string { return "products" }

// ProductFilter narrows a listing query. Zero values mean "no constraint".
type ProductFilter struct {
	Categories []string
	Colors     []string
	Sizes      []string
	PriceMin   *float64
	PriceMax   *float64
}

type ProductPage struct {
	Products   []Product `json:"products"`
	Total      int64     `json:"total"`
	TotalPages int       `json:"totalPages"`
	Page       int       `json:"currentPage"`
}

// SlugRef is the projection the sitemap needs.
type SlugRef struct {
	Slug      string
	UpdatedAt time.Time
}

type ProductRepository interface {
	Create(p *Product) error
	FindBySlug(slug string) (*Product, error)
	Update(p *Product) error
	DeleteBySlug(slug string) (*Product, error)
	List(f ProductFilter, sort string, page, perPage int) (*ProductPage, error)
	Latest(category string, limit int) ([]Product, error)
	Slugs() ([]SlugRef, error)
}
