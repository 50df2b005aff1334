package repositories

import (
	"errors"

	"gorm.io/gorm"

	"lapak/internal/apperrors"
	"lapak/internal/models"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

// GetAll retrieves all orders in insertion order.
func (r *GORMOrderRepository) GetAll() ([]models.Order, error) {
	orders := make([]models.Order, 0)
	if err := r.db.Order("id").Find(&orders).Error; err != nil {
		return nil, apperrors.NewStore("failed to get all orders", err)
	}
	return orders, nil
}

// GetByID retrieves a single order by its ID.
func (r *GORMOrderRepository) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	if err := r.db.First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("order with ID %d not found", id)
		}
		return nil, apperrors.NewStore("failed to get order", err)
	}
	return &order, nil
}

// Create inserts a new order; the store assigns the ID.
func (r *GORMOrderRepository) Create(order *models.Order) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(order).Error
	})
	if err != nil {
		return apperrors.NewStore("failed to create order", err)
	}
	return nil
}

// Delete removes an order by its ID.
func (r *GORMOrderRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Order{}, "id = ?", id)
		if res.Error != nil {
			return apperrors.NewStore("failed to delete order", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperrors.NewNotFound("order with ID %d not found", id)
		}
		return nil
	})
}
