package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"storefront/internal/models"
)

// MockOrderRepository is an in-memory implementation of OrderRepository.
type MockOrderRepository struct {
	records []models.OrderRecord
	nextID  uint
	mu      sync.RWMutex
}

// NewMockOrderRepository creates a new instance of MockOrderRepository.
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{}
}

// Create appends a record.
func (r *MockOrderRepository) Create(record *models.OrderRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	record.ID = r.nextID
	record.CreatedAt = time.Now()
	record.UpdatedAt = record.CreatedAt
	r.records = append(r.records, *record)
	return nil
}

// GetByOrderID returns every record written for an order.
func (r *MockOrderRepository) GetByOrderID(orderID string) ([]models.OrderRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []models.OrderRecord
	for _, rec := range r.records {
		if rec.OrderID == orderID {
			out = append(out, rec)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("order with ID %s: %w", orderID, ErrNotFound)
	}
	return out, nil
}

// GetByPhone returns the records for a phone number, newest first.
func (r *MockOrderRepository) GetByPhone(phone string) ([]models.OrderRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []models.OrderRecord{}
	for _, rec := range r.records {
		if rec.Phone == phone {
			out = append(out, rec)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

// UpdateStatus sets the status on every record of an order.
func (r *MockOrderRepository) UpdateStatus(orderID string, status models.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	found := false
	for i := range r.records {
		if r.records[i].OrderID == orderID {
			r.records[i].Status = status
			r.records[i].UpdatedAt = time.Now()
			found = true
		}
	}
	if !found {
		return fmt.Errorf("order with ID %s for status update: %w", orderID, ErrNotFound)
	}
	return nil
}

// SetPaymentReference records the gateway reference on every record of an order.
func (r *MockOrderRepository) SetPaymentReference(orderID, reference string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	found := false
	for i := range r.records {
		if r.records[i].OrderID == orderID {
			r.records[i].PaymentReference = reference
			r.records[i].UpdatedAt = time.Now()
			found = true
		}
	}
	if !found {
		return fmt.Errorf("order with ID %s for payment reference: %w", orderID, ErrNotFound)
	}
	return nil
}

// CountOrdersSince counts distinct order ids created at or after since.
func (r *MockOrderRepository) CountOrdersSince(since time.Time) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool)
	for _, rec := range r.records {
		if !rec.CreatedAt.Before(since) {
			seen[rec.OrderID] = true
		}
	}
	return len(seen), nil
}
