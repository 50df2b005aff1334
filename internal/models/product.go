package models

import "time"

// Product represents a product in the store. The ID is assigned by the
// database on creation and immutable thereafter.
type Product struct {
	ID          uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string    `json:"name" gorm:"type:varchar(100);not null"`
	Description *string   `json:"description"`
	Price       float64   `json:"price" gorm:"not null"`
	Stock       int       `json:"stock" gorm:"not null;default:0"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName pins the singular table name used by the schema.
func (Product) TableName() string { return "product" }

// ProductCreateRequest is the request body for creating a product. Pointer
// fields distinguish "absent" from zero values so required-field failures
// can name the missing field.
type ProductCreateRequest struct {
	Name        *string  `json:"name" validate:"omitnil,min=1,max=100"`
	Description *string  `json:"description" validate:"omitnil,max=500"`
	Price       *float64 `json:"price" validate:"omitnil,gt=0"`
	Stock       *int     `json:"stock" validate:"omitnil,gte=0"`
}

// ProductUpdateRequest is the request body for a partial product update.
// Absent fields leave the stored value untouched.
type ProductUpdateRequest struct {
	Name        *string  `json:"name" validate:"omitnil,min=1,max=100"`
	Description *string  `json:"description" validate:"omitnil,max=500"`
	Price       *float64 `json:"price" validate:"omitnil,gt=0"`
	Stock       *int     `json:"stock" validate:"omitnil,gte=0"`
}
