package repositories

import (
	"fmt"
	"sync"

	"storefront/internal/models"
)

// MockProductRepository is an in-memory implementation of ProductRepository.
type MockProductRepository struct {
	products []models.Product
	byID     map[string]int
	mu       sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		byID: make(map[string]int),
	}
}

// GetAll returns all products in feed order.
func (r *MockProductRepository) GetAll() ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	productList := make([]models.Product, len(r.products))
	copy(productList, r.products)
	return productList, nil
}

// GetByID returns a product by its ID.
func (r *MockProductRepository) GetByID(id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("product with ID %s: %w", id, ErrNotFound)
	}
	product := r.products[i]
	return &product, nil
}

// ReplaceAll swaps the catalogue. Later duplicates of an id are dropped.
func (r *MockProductRepository) ReplaceAll(products []models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.products = make([]models.Product, 0, len(products))
	r.byID = make(map[string]int, len(products))
	for i, p := range products {
		if _, dup := r.byID[p.ID]; dup {
			continue
		}
		p.Position = i
		r.byID[p.ID] = len(r.products)
		r.products = append(r.products, p)
	}
	return nil
}

// Count returns the number of stored products.
func (r *MockProductRepository) Count() (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.products)), nil
}
