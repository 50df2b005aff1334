package repositories

import (
	"lapak/internal/models"
)

// OrderRepository defines the interface for order data access. Orders are
// immutable after creation apart from deletion, so there is no update.
type OrderRepository interface {
	GetAll() ([]models.Order, error)
	GetByID(id uint) (*models.Order, error)
	Create(order *models.Order) error
	Delete(id uint) error
}
