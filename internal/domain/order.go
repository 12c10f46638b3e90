package domain

import "time"

const (
	OrderPending   = "pending"
	OrderShipped   = "shipped"
	OrderDelivered = "delivered"
)

type OrderCustomer struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Phone2      string `json:"phone2,omitempty"`
	Email       string `json:"email,omitempty"`
	Address     string `json:"address"`
	Governorate string `json:"governorate,omitempty"`
}

// PackItem is a product nested inside a pack line.
type PackItem struct {
	ProductID         string  `json:"productId"`
	Name              string  `json:"name"`
	Price             float64 `json:"price"`
	Quantity          int     `json:"quantity"`
	SelectedSize      string  `json:"selectedSize,omitempty"`
	SelectedSizePrice float64 `json:"selectedSizePrice,omitempty"`
	SelectedColor     string  `json:"selectedColor,omitempty"`
}

type OrderItem struct {
	ProductID     string     `json:"productId"`
	Name          string     `json:"name"`
	Price         float64    `json:"price"`
	Quantity      int        `json:"quantity"`
	Image         string     `json:"image,omitempty"`
	SelectedSize  string     `json:"selectedSize,omitempty"`
	SelectedColor string     `json:"selectedColor,omitempty"`
	Type          string     `json:"type"` // "single" or "pack"
	Products      []PackItem `json:"products,omitempty"`
}

type Order struct {
	ID            string        `gorm:"primaryKey;size:36" json:"id"`
	Customer      OrderCustomer `gorm:"serializer:json" json:"customer"`
	Items         []OrderItem   `gorm:"serializer:json" json:"items"`
	PaymentMethod string        `gorm:"size:32" json:"paymentMethod"`
	Shipping      float64       `json:"shipping"`
	Subtotal      float64       `json:"subtotal"`
	Total         float64       `json:"total"`
	Status        string        `gorm:"size:16;not null;default:pending" json:"status"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Order) TableName() string { return "orders" }

type OrderRepository interface {
	Create(o *Order) error
	FindByID(id string) (*Order, error)
	List() ([]Order, error)
	DeleteByID(id string) error
	UpdateStatus(id, status string) (*Order, error)
}
