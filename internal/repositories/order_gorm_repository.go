package repositories

import (
	"fmt"
	"time"

	"storefront/internal/models"

	"gorm.io/gorm"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

// Create inserts one order record.
func (r *GORMOrderRepository) Create(record *models.OrderRecord) error {
	if err := r.db.Create(record).Error; err != nil {
		return fmt.Errorf("failed to create order record: %w", err)
	}
	return nil
}

// GetByOrderID returns every record written for an order.
func (r *GORMOrderRepository) GetByOrderID(orderID string) ([]models.OrderRecord, error) {
	var records []models.OrderRecord
	if err := r.db.Where("order_id = ?", orderID).Order("id").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to get order %s: %w", orderID, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("order with ID %s: %w", orderID, ErrNotFound)
	}
	return records, nil
}

// GetByPhone returns the records for a phone number, newest first.
func (r *GORMOrderRepository) GetByPhone(phone string) ([]models.OrderRecord, error) {
	records := []models.OrderRecord{}
	if err := r.db.Where("phone = ?", phone).Order("id desc").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to get orders for phone %s: %w", phone, err)
	}
	return records, nil
}

// UpdateStatus sets the status on every record of an order.
func (r *GORMOrderRepository) UpdateStatus(orderID string, status models.OrderStatus) error {
	res := r.db.Model(&models.OrderRecord{}).Where("order_id = ?", orderID).Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("failed to update order status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order with ID %s for status update: %w", orderID, ErrNotFound)
	}
	return nil
}

// SetPaymentReference records the gateway reference on every record of an order.
func (r *GORMOrderRepository) SetPaymentReference(orderID, reference string) error {
	res := r.db.Model(&models.OrderRecord{}).Where("order_id = ?", orderID).Update("payment_reference", reference)
	if res.Error != nil {
		return fmt.Errorf("failed to set payment reference: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order with ID %s for payment reference: %w", orderID, ErrNotFound)
	}
	return nil
}

// CountOrdersSince counts distinct order ids created at or after since.
func (r *GORMOrderRepository) CountOrdersSince(since time.Time) (int, error) {
	var n int64
	err := r.db.Model(&models.OrderRecord{}).
		Where("created_at >= ?", since).
		Distinct("order_id").
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return int(n), nil
}
