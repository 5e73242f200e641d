package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"storefront/internal/metrics"
	"storefront/internal/models"
	"storefront/internal/repositories"
)

// FallbackImageURL is used for feed rows without an image.
const FallbackImageURL = "https://res.cloudinary.com/demo/image/upload/sample.jpg"

// Notices shown when the live feed could not be used.
const (
	NoticeDemoCatalog   = "Using demo products"
	NoticeCachedCatalog = "Showing last saved catalogue"
)

// FeedClient fetches the normalized product list from the catalogue feed.
type FeedClient interface {
	FetchProducts(ctx context.Context) ([]models.Product, error)
}

// DemoProducts is the built-in catalogue used when the feed is unavailable.
func DemoProducts() []models.Product {
	return []models.Product{
		{ID: "d1", Name: "Formal Shirt", Price: 599, ImageURL: FallbackImageURL, Season: models.SeasonSummer, MinimumOrder: 1},
		{ID: "d2", Name: "Casual Jeans", Price: 799, ImageURL: FallbackImageURL, Season: models.SeasonWinter, MinimumOrder: 1},
	}
}

// CatalogService serves the read-only product catalogue.
type CatalogService struct {
	repo repositories.ProductRepository
	feed FeedClient

	mu     sync.RWMutex
	notice string
}

// NewCatalogService creates a catalogue backed by repo and refreshed from feed.
// A nil feed means the demo catalogue is always used.
func NewCatalogService(repo repositories.ProductRepository, feed FeedClient) *CatalogService {
	return &CatalogService{
		repo: repo,
		feed: feed,
	}
}

// Refresh reloads the catalogue from the feed. A feed failure never leaves the
// catalogue empty: the last saved snapshot is kept, or the demo catalogue is
// seeded, and a notice is set. The returned error wraps ErrFeedUnavailable and
// is informational only.
func (s *CatalogService) Refresh(ctx context.Context) error {
	var feedErr error
	if s.feed == nil {
		feedErr = fmt.Errorf("%w: no feed configured", ErrFeedUnavailable)
	} else {
		products, err := s.feed.FetchProducts(ctx)
		switch {
		case err != nil:
			feedErr = fmt.Errorf("%w: %v", ErrFeedUnavailable, err)
		case len(products) == 0:
			feedErr = fmt.Errorf("%w: feed returned no products", ErrFeedUnavailable)
		default:
			if err := s.repo.ReplaceAll(products); err != nil {
				return fmt.Errorf("failed to store catalogue: %w", err)
			}
			s.setNotice("")
			metrics.CatalogRefreshes.WithLabelValues("ok").Inc()
			log.Printf("Catalogue refreshed with %d products", len(products))
			return nil
		}
	}

	metrics.CatalogRefreshes.WithLabelValues("fallback").Inc()
	log.Printf("Catalogue feed error: %v", feedErr)

	if n, err := s.repo.Count(); err == nil && n > 0 && s.Notice() != NoticeDemoCatalog {
		s.setNotice(NoticeCachedCatalog)
		return feedErr
	}
	if err := s.repo.ReplaceAll(DemoProducts()); err != nil {
		return errors.Join(feedErr, fmt.Errorf("failed to seed demo catalogue: %w", err))
	}
	s.setNotice(NoticeDemoCatalog)
	return feedErr
}

// Products lists the catalogue filtered by season.
func (s *CatalogService) Products(season models.Season) ([]models.Product, error) {
	all, err := s.repo.GetAll()
	if err != nil {
		return nil, err
	}
	filtered := make([]models.Product, 0, len(all))
	for _, p := range all {
		if p.MatchesSeason(season) {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

// Product returns one product by id.
func (s *CatalogService) Product(id string) (*models.Product, error) {
	p, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrProductNotFound, id)
		}
		return nil, err
	}
	return p, nil
}

// Notice returns the non-fatal catalogue notice, empty when the live feed is in use.
func (s *CatalogService) Notice() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.notice
}

func (s *CatalogService) setNotice(notice string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notice = notice
}
