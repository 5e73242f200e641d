package repositories

import (
	"storefront/internal/models"
)

// ProductRepository stores the current catalogue snapshot.
type ProductRepository interface {
	GetAll() ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	// ReplaceAll swaps the whole catalogue for products, keeping their order.
	ReplaceAll(products []models.Product) error
	Count() (int64, error)
}
