package models

import "time"

// Order represents a customer order for a single product. TotalPrice is a
// snapshot of product.price × quantity at creation time and is not
// recomputed if the product's price later changes.
type Order struct {
	ID         uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	ProductID  uint      `json:"product_id" gorm:"not null;index"`
	Quantity   int       `json:"quantity" gorm:"not null"`
	TotalPrice float64   `json:"total_price" gorm:"not null"`
	CreatedAt  time.Time `json:"created_at"`

	Product *Product `json:"-" gorm:"foreignKey:ProductID"`
}

// TableName pins the singular table name used by the schema.
func (Order) TableName() string { return "order" }

// OrderCreateRequest is the request body for creating an order.
type OrderCreateRequest struct {
	ProductID *uint `json:"product_id"`
	Quantity  *int  `json:"quantity" validate:"omitnil,gt=0"`
}
