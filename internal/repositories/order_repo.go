package repositories

import (
	"time"

	"storefront/internal/models"
)

// OrderRepository defines data access for persisted order records.
type OrderRepository interface {
	Create(record *models.OrderRecord) error
	GetByOrderID(orderID string) ([]models.OrderRecord, error)
	GetByPhone(phone string) ([]models.OrderRecord, error)
	UpdateStatus(orderID string, status models.OrderStatus) error
	SetPaymentReference(orderID, reference string) error
	// CountOrdersSince counts distinct order ids first written at or after since.
	CountOrdersSince(since time.Time) (int, error)
}
