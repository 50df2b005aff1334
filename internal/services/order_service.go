package services

import (
	"log"

	"github.com/go-playground/validator/v10"

	"lapak/internal/apperrors"
	"lapak/internal/models"
	"lapak/internal/repositories"
	"lapak/pkg/rabbitmq"
)

// OrderEventPublisher publishes order lifecycle events to the broker.
type OrderEventPublisher interface {
	PublishOrderCreated(event rabbitmq.OrderEvent) error
}

// OrderService handles business logic related to orders.
type OrderService struct {
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	publisher   OrderEventPublisher
	validate    *validator.Validate
}

// NewOrderService creates a new OrderService. The publisher may be nil when
// no broker is configured; order creation then skips event publication.
func NewOrderService(orderRepo repositories.OrderRepository, productRepo repositories.ProductRepository, publisher OrderEventPublisher) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		publisher:   publisher,
		validate:    validator.New(),
	}
}

// GetAll retrieves all orders.
func (s *OrderService) GetAll() ([]models.Order, error) {
	return s.orderRepo.GetAll()
}

// GetByID retrieves a single order by its ID.
func (s *OrderService) GetByID(id uint) (*models.Order, error) {
	return s.orderRepo.GetByID(id)
}

// Create validates the request against the referenced product and persists a
// new order. The total price is a snapshot of the product's current price
// times the quantity.
func (s *OrderService) Create(req models.OrderCreateRequest) (*models.Order, error) {
	if req.ProductID == nil {
		return nil, missingField("product_id")
	}
	if req.Quantity == nil {
		return nil, missingField("quantity")
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, constraintError(err)
	}

	product, err := s.productRepo.GetByID(*req.ProductID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewNotFound("product not found")
		}
		return nil, err
	}

	if *req.Quantity > product.Stock {
		return nil, apperrors.NewValidation("insufficient stock for product %s (requested: %d, available: %d)", product.Name, *req.Quantity, product.Stock)
	}

	order := &models.Order{
		ProductID:  product.ID,
		Quantity:   *req.Quantity,
		TotalPrice: product.Price * float64(*req.Quantity),
	}
	if err := s.orderRepo.Create(order); err != nil {
		return nil, err
	}

	// Event publication is best effort: a broker failure never fails the
	// committed order.
	if s.publisher != nil {
		event := rabbitmq.OrderEvent{
			OrderID:    order.ID,
			ProductID:  order.ProductID,
			Quantity:   order.Quantity,
			TotalPrice: order.TotalPrice,
			CreatedAt:  order.CreatedAt,
		}
		if err := s.publisher.PublishOrderCreated(event); err != nil {
			log.Printf("Warning: failed to publish order created event for order %d: %v", order.ID, err)
		}
	}

	return order, nil
}

// Delete deletes an order by its ID.
func (s *OrderService) Delete(id uint) error {
	return s.orderRepo.Delete(id)
}
