package services

import (
	"log"
	"time"

	"github.com/google/uuid"

	"catalogo/internal/models"
	"catalogo/internal/repositories"
	"catalogo/pkg/rabbitmq"
)

// ProductService handles business logic related to catalog products. After a
// successful mutation it publishes a catalog event when a RabbitMQ client is
// configured; publication failures are logged and never surfaced to the
// caller, and the mutation itself is not rolled back.
type ProductService struct {
	repo     repositories.ProductRepository
	mqClient *rabbitmq.Client
}

// NewProductService creates a new ProductService. mqClient may be nil, in
// which case no events are published.
func NewProductService(repo repositories.ProductRepository, mqClient *rabbitmq.Client) *ProductService {
	return &ProductService{
		repo:     repo,
		mqClient: mqClient,
	}
}

// ListProducts retrieves products ordered by ascending ID. A limit of zero or
// less means no limit.
func (s *ProductService) ListProducts(limit, offset int) ([]models.Product, error) {
	return s.repo.List(limit, offset)
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id uint) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// CreateProduct persists a new product and publishes a product.created event.
func (s *ProductService) CreateProduct(product *models.Product) error {
	if err := s.repo.Create(product); err != nil {
		return err
	}
	s.publishEvent(rabbitmq.EventProductCreated, product.ID, product)
	return nil
}

// UpdateProduct replaces the mutable fields of an existing product and
// publishes a product.updated event.
func (s *ProductService) UpdateProduct(product *models.Product) error {
	if err := s.repo.Update(product); err != nil {
		return err
	}
	s.publishEvent(rabbitmq.EventProductUpdated, product.ID, product)
	return nil
}

// DeleteProduct removes a product by its ID and publishes a product.deleted
// event.
func (s *ProductService) DeleteProduct(id uint) error {
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	s.publishEvent(rabbitmq.EventProductDeleted, id, nil)
	return nil
}

func (s *ProductService) publishEvent(eventType string, productID uint, product *models.Product) {
	if s.mqClient == nil {
		return
	}

	event := rabbitmq.CatalogEvent{
		EventID:    uuid.New().String(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		ProductID:  productID,
		Product:    product,
	}
	if err := s.mqClient.PublishCatalogEvent(event); err != nil {
		log.Printf("Warning: Failed to publish %s event for product %d: %v", eventType, productID, err)
	}
}
