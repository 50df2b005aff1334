package repositories

import (
	"errors"

	"gorm.io/gorm"

	"lapak/internal/apperrors"
	"lapak/internal/models"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// GetAll retrieves all products in insertion order.
func (r *GORMProductRepository) GetAll() ([]models.Product, error) {
	products := make([]models.Product, 0)
	if err := r.db.Order("id").Find(&products).Error; err != nil {
		return nil, apperrors.NewStore("failed to get all products", err)
	}
	return products, nil
}

// GetByID retrieves a single product by its ID.
func (r *GORMProductRepository) GetByID(id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("product with ID %d not found", id)
		}
		return nil, apperrors.NewStore("failed to get product", err)
	}
	return &product, nil
}

// Create inserts a new product; the store assigns the ID and timestamps are
// populated on the passed struct.
func (r *GORMProductRepository) Create(product *models.Product) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(product).Error
	})
	if err != nil {
		return apperrors.NewStore("failed to create product", err)
	}
	return nil
}

// Update writes the full product row and refreshes updated_at.
func (r *GORMProductRepository) Update(product *models.Product) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Save(product)
		if res.Error != nil {
			return apperrors.NewStore("failed to update product", res.Error)
		}
		if res.RowsAffected == 0 {
			// Save does not return ErrRecordNotFound for a missing row.
			return apperrors.NewNotFound("product with ID %d not found", product.ID)
		}
		return nil
	})
}

// Delete removes a product by its ID. Deletion is refused while orders still
// reference the product, so order history is never orphaned.
func (r *GORMProductRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var referencing int64
		if err := tx.Model(&models.Order{}).Where("product_id = ?", id).Count(&referencing).Error; err != nil {
			return apperrors.NewStore("failed to count referencing orders", err)
		}
		if referencing > 0 {
			return apperrors.NewConflict("product with ID %d is referenced by %d order(s)", id, referencing)
		}

		res := tx.Delete(&models.Product{}, "id = ?", id)
		if res.Error != nil {
			return apperrors.NewStore("failed to delete product", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperrors.NewNotFound("product with ID %d not found", id)
		}
		return nil
	})
}
