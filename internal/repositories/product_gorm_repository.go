package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"catalogo/internal/models"
)

const defaultStatementTimeout = 5 * time.Second

// GORMProductRepository is a GORM implementation of ProductRepository.
//
// Each operation runs under its own statement timeout; waiting for a free
// connection in an exhausted pool counts against the same deadline, so a
// saturated pool surfaces as a store error instead of blocking forever.
type GORMProductRepository struct {
	db      *gorm.DB
	timeout time.Duration
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB, timeout time.Duration) *GORMProductRepository {
	if timeout <= 0 {
		timeout = defaultStatementTimeout
	}
	return &GORMProductRepository{
		db:      db,
		timeout: timeout,
	}
}

func (r *GORMProductRepository) session() (*gorm.DB, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	return r.db.WithContext(ctx), cancel
}

// List retrieves products ordered by ascending ID. A limit of zero or less
// means no limit.
func (r *GORMProductRepository) List(limit, offset int) ([]models.Product, error) {
	db, cancel := r.session()
	defer cancel()

	query := db.Order("id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// GetByID retrieves a single product by its ID from the database.
func (r *GORMProductRepository) GetByID(id uint) (*models.Product, error) {
	db, cancel := r.session()
	defer cancel()

	var product models.Product
	if err := db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product %d: %w", id, err)
	}
	return &product, nil
}

// Create inserts a new product. The store assigns the ID and timestamps. A
// case-insensitive name collision violates the unique index on name_key and
// comes back as ErrDuplicateName.
func (r *GORMProductRepository) Create(product *models.Product) error {
	db, cancel := r.session()
	defer cancel()

	product.NameKey = models.NormalizeName(product.Name)
	if err := db.Create(product).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateName
		}
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update replaces the mutable fields of an existing product and refreshes
// updated_at. The read and write run in one transaction.
func (r *GORMProductRepository) Update(product *models.Product) error {
	db, cancel := r.session()
	defer cancel()

	product.NameKey = models.NormalizeName(product.Name)
	return db.Transaction(func(tx *gorm.DB) error {
		var existing models.Product
		if err := tx.First(&existing, "id = ?", product.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return fmt.Errorf("failed to load product %d: %w", product.ID, err)
		}

		existing.Name = product.Name
		existing.NameKey = product.NameKey
		existing.Price = product.Price
		existing.Description = product.Description

		if err := tx.Save(&existing).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateName
			}
			return fmt.Errorf("failed to update product %d: %w", product.ID, err)
		}

		*product = existing
		return nil
	})
}

// Delete removes a product permanently.
func (r *GORMProductRepository) Delete(id uint) error {
	db, cancel := r.session()
	defer cancel()

	res := db.Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}
