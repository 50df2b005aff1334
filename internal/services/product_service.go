package services

import (
	"github.com/go-playground/validator/v10"

	"lapak/internal/models"
	"lapak/internal/repositories"
)

// ProductService handles business logic related to products: it validates
// and normalizes inbound fields before anything reaches the repository.
type ProductService struct {
	repo     repositories.ProductRepository
	validate *validator.Validate
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository) *ProductService {
	return &ProductService{
		repo:     repo,
		validate: validator.New(),
	}
}

// GetAll retrieves all products.
func (s *ProductService) GetAll() ([]models.Product, error) {
	return s.repo.GetAll()
}

// GetByID retrieves a single product by its ID.
func (s *ProductService) GetByID(id uint) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// Create validates the request and persists a new product. Stock defaults
// to 0 when absent.
func (s *ProductService) Create(req models.ProductCreateRequest) (*models.Product, error) {
	if req.Name == nil {
		return nil, missingField("name")
	}
	if req.Price == nil {
		return nil, missingField("price")
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, constraintError(err)
	}

	product := &models.Product{
		Name:        *req.Name,
		Description: req.Description,
		Price:       *req.Price,
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}

	if err := s.repo.Create(product); err != nil {
		return nil, err
	}
	return product, nil
}

// Update applies a partial update to an existing product. Only supplied
// fields are validated and written; the rest keep their stored values.
func (s *ProductService) Update(id uint, req models.ProductUpdateRequest) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if err := s.validate.Struct(req); err != nil {
		return nil, constraintError(err)
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = req.Description
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}

	if err := s.repo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

// Delete deletes a product by its ID.
func (s *ProductService) Delete(id uint) error {
	return s.repo.Delete(id)
}
