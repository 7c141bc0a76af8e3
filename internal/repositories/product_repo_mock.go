package repositories

import (
	"sort"
	"sync"
	"time"

	"catalogo/internal/models"
)

// MockProductRepository is an in-memory implementation of ProductRepository.
// It mirrors the store semantics the GORM implementation relies on: ascending
// surrogate IDs that are never reused, case-insensitive name uniqueness, and
// store-managed timestamps.
type MockProductRepository struct {
	products map[uint]models.Product
	nextID   uint
	mu       sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products: make(map[uint]models.Product),
		nextID:   1,
	}
}

// List returns products ordered by ascending ID.
func (r *MockProductRepository) List(limit, offset int) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	productList := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		productList = append(productList, p)
	}
	sort.Slice(productList, func(i, j int) bool {
		return productList[i].ID < productList[j].ID
	})

	if offset > 0 {
		if offset >= len(productList) {
			return []models.Product{}, nil
		}
		productList = productList[offset:]
	}
	if limit > 0 && limit < len(productList) {
		productList = productList[:limit]
	}
	return productList, nil
}

// GetByID returns a product by its ID.
func (r *MockProductRepository) GetByID(id uint) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	return &product, nil
}

// Create adds a new product, assigning the next ID and the timestamps.
func (r *MockProductRepository) Create(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product.NameKey = models.NormalizeName(product.Name)
	if r.nameTaken(product.NameKey, 0) {
		return ErrDuplicateName
	}

	product.ID = r.nextID
	r.nextID++
	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now
	r.products[product.ID] = *product
	return nil
}

// Update replaces the mutable fields of an existing product.
func (r *MockProductRepository) Update(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.products[product.ID]
	if !ok {
		return ErrProductNotFound
	}

	product.NameKey = models.NormalizeName(product.Name)
	if r.nameTaken(product.NameKey, product.ID) {
		return ErrDuplicateName
	}

	existing.Name = product.Name
	existing.NameKey = product.NameKey
	existing.Price = product.Price
	existing.Description = product.Description
	existing.UpdatedAt = time.Now()
	r.products[product.ID] = existing
	*product = existing
	return nil
}

// Delete removes a product by its ID. Deleted IDs are never reused.
func (r *MockProductRepository) Delete(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return ErrProductNotFound
	}
	delete(r.products, id)
	return nil
}

// nameTaken reports whether another product already owns the normalized name.
// Callers must hold the lock.
func (r *MockProductRepository) nameTaken(nameKey string, excludeID uint) bool {
	for _, p := range r.products {
		if p.NameKey == nameKey && p.ID != excludeID {
			return true
		}
	}
	return false
}
