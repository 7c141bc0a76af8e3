package repositories

import (
	"errors"

	"catalogo/internal/models"
)

// Sentinel errors shared by all ProductRepository implementations. The handler
// layer translates these into HTTP statuses; any other error is treated as a
// store failure and surfaced as a generic server error.
var (
	ErrProductNotFound = errors.New("product not found")
	ErrDuplicateName   = errors.New("product name already in use")
)

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	List(limit, offset int) ([]models.Product, error)
	GetByID(id uint) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id uint) error
}
