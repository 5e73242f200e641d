package models

import (
	"strings"
	"time"
)

// Season tags a product for catalogue filtering.
type Season string

const (
	SeasonAll    Season = "all"
	SeasonSummer Season = "summer"
	SeasonWinter Season = "winter"
	SeasonRainy  Season = "rainy"
)

// ParseSeason normalizes a raw season value. Unknown or empty values map to SeasonAll.
func ParseSeason(raw string) Season {
	switch s := Season(strings.ToLower(strings.TrimSpace(raw))); s {
	case SeasonSummer, SeasonWinter, SeasonRainy:
		return s
	default:
		return SeasonAll
	}
}

// Product represents a sellable item from the catalogue feed.
// Stock is nil when the feed does not bound the quantity.
type Product struct {
	ID           string    `json:"id" gorm:"primaryKey;type:varchar(64)"`
	Name         string    `json:"name" gorm:"type:varchar(255)"`
	Price        int       `json:"price"`
	ImageURL     string    `json:"image_url"`
	Season       Season    `json:"season" gorm:"type:varchar(16);index"`
	Stock        *int      `json:"stock,omitempty"`
	MinimumOrder int       `json:"minimum_order" gorm:"default:1"`
	Position     int       `json:"-"` // feed order
	UpdatedAt    time.Time `json:"-"`
}

// MOQ returns the minimum order quantity, never less than 1.
func (p Product) MOQ() int {
	if p.MinimumOrder < 1 {
		return 1
	}
	return p.MinimumOrder
}

// HasStockLimit reports whether the product carries a stock ceiling.
func (p Product) HasStockLimit() bool {
	return p.Stock != nil
}

// OutOfStock is true only for products with a defined, exhausted stock.
func (p Product) OutOfStock() bool {
	return p.Stock != nil && *p.Stock <= 0
}

// MatchesSeason reports whether the product should be listed under the given filter.
func (p Product) MatchesSeason(filter Season) bool {
	return filter == SeasonAll || p.Season == SeasonAll || p.Season == filter
}
