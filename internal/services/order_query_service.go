package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"storefront/internal/models"
	"storefront/internal/repositories"
)

// OrderLookup finds previously submitted order records by phone number.
type OrderLookup interface {
	FindByPhone(ctx context.Context, phone string) ([]models.OrderRecord, error)
}

// RepositorySink writes order records to an OrderRepository. It also serves
// lookups from the same repository.
type RepositorySink struct {
	repo repositories.OrderRepository
}

// NewRepositorySink creates a database-backed sink.
func NewRepositorySink(repo repositories.OrderRepository) *RepositorySink {
	return &RepositorySink{repo: repo}
}

// Name identifies the sink in logs and metrics.
func (s *RepositorySink) Name() string { return "database" }

// Write persists one record. Database errors are reported as an unavailable sink.
func (s *RepositorySink) Write(_ context.Context, record models.OrderRecord) error {
	if err := s.repo.Create(&record); err != nil {
		return fmt.Errorf("%w: %v", ErrSinkUnavailable, err)
	}
	return nil
}

// Settle amends the stored records once the payment outcome is known. An empty
// status or reference leaves that field as written.
func (s *RepositorySink) Settle(_ context.Context, orderID string, status models.OrderStatus, reference string) error {
	if reference != "" {
		if err := s.repo.SetPaymentReference(orderID, reference); err != nil {
			return err
		}
	}
	if status != "" {
		if err := s.repo.UpdateStatus(orderID, status); err != nil {
			return err
		}
	}
	return nil
}

// FindByPhone returns the stored records for phone.
func (s *RepositorySink) FindByPhone(_ context.Context, phone string) ([]models.OrderRecord, error) {
	return s.repo.GetByPhone(phone)
}

// OrderQueryService is the read path over submitted orders.
type OrderQueryService struct {
	lookup OrderLookup
	repo   repositories.OrderRepository
}

// NewOrderQueryService creates the read path. repo may be nil when orders are
// only kept in an external sheet; status updates are then unavailable.
func NewOrderQueryService(lookup OrderLookup, repo repositories.OrderRepository) *OrderQueryService {
	return &OrderQueryService{
		lookup: lookup,
		repo:   repo,
	}
}

// FindByPhone returns the orders submitted with phone.
func (s *OrderQueryService) FindByPhone(ctx context.Context, phone string) ([]models.OrderRecord, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, ErrPhoneRequired
	}
	if s.lookup == nil {
		return nil, ErrLookupUnavailable
	}
	records, err := s.lookup.FindByPhone(ctx, phone)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLookupUnavailable, err)
	}
	return records, nil
}

// GetOrder returns every record of one order.
func (s *OrderQueryService) GetOrder(orderID string) ([]models.OrderRecord, error) {
	if s.repo == nil {
		return nil, ErrLookupUnavailable
	}
	return s.repo.GetByOrderID(orderID)
}

// UpdateOrderStatus updates the status of an existing order.
func (s *OrderQueryService) UpdateOrderStatus(orderID string, status models.OrderStatus) error {
	validStatuses := map[models.OrderStatus]bool{
		models.OrderStatusPending:    true,
		models.OrderStatusProcessing: true,
		models.OrderStatusCompleted:  true,
		models.OrderStatusCancelled:  true,
	}
	if !validStatuses[status] {
		return fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}
	if s.repo == nil {
		return ErrLookupUnavailable
	}

	if err := s.repo.UpdateStatus(orderID, status); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to update order status for order %s: %w", orderID, err)
	}
	return nil
}
