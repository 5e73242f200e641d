package services

import (
	"fmt"
	"sync"

	"storefront/internal/models"
)

// Cart is the per-session cart store. Lines are unique by product id and keep
// insertion order. Totals are maintained on every mutation.
//
// While a checkout holds the cart (between BeginCheckout and CompleteCheckout or
// AbortCheckout) every mutation is rejected with ErrCheckoutInProgress.
type Cart struct {
	mu         sync.RWMutex
	items      []models.CartItem
	index      map[string]int
	totalItems int
	totalPrice int
	held       bool
}

// NewCart creates an empty cart.
func NewCart() *Cart {
	return &Cart{
		index: make(map[string]int),
	}
}

// Add puts qty units of product into the cart, merging into an existing line.
// A qty of 0 means the caller did not choose one and defaults to the product's MOQ.
func (c *Cart) Add(product models.Product, qty int) error {
	if qty == 0 {
		qty = product.MOQ()
	}
	if qty < product.MOQ() {
		return fmt.Errorf("%w: %s needs at least %d pieces", ErrBelowMinimumOrder, product.Name, product.MOQ())
	}
	if product.HasStockLimit() && qty > *product.Stock {
		return fmt.Errorf("%w: only %d pieces of %s available", ErrExceedsStock, *product.Stock, product.Name)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.held {
		return ErrCheckoutInProgress
	}

	if i, ok := c.index[product.ID]; ok {
		line := &c.items[i]
		merged := line.Qty + qty
		if product.HasStockLimit() && merged > *product.Stock {
			return fmt.Errorf("%w: only %d pieces of %s available, %d already in cart", ErrExceedsStock, *product.Stock, product.Name, line.Qty)
		}
		// Refresh the product snapshot so price and limits follow the catalogue.
		c.totalPrice += product.Price*merged - line.Price*line.Qty
		c.totalItems += qty
		line.Product = product
		line.Qty = merged
		return nil
	}

	c.index[product.ID] = len(c.items)
	c.items = append(c.items, models.CartItem{Product: product, Qty: qty})
	c.totalItems += qty
	c.totalPrice += product.Price * qty
	return nil
}

// UpdateQty sets the quantity of an existing line. Values below 1 are clamped to 1;
// removal is a separate operation. A quantity above the stock ceiling is rejected
// and the previous quantity is kept.
func (c *Cart) UpdateQty(id string, qty int) error {
	if qty < 1 {
		qty = 1
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.held {
		return ErrCheckoutInProgress
	}

	i, ok := c.index[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}
	line := &c.items[i]
	if line.HasStockLimit() && qty > *line.Stock {
		return fmt.Errorf("%w: only %d pieces of %s available", ErrExceedsStock, *line.Stock, line.Name)
	}

	c.totalItems += qty - line.Qty
	c.totalPrice += line.Price * (qty - line.Qty)
	line.Qty = qty
	return nil
}

// Remove deletes a line. Removing an absent id is a no-op.
func (c *Cart) Remove(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.held {
		return ErrCheckoutInProgress
	}

	i, ok := c.index[id]
	if !ok {
		return nil
	}
	line := c.items[i]
	c.totalItems -= line.Qty
	c.totalPrice -= line.Subtotal()

	c.items = append(c.items[:i], c.items[i+1:]...)
	delete(c.index, id)
	for j := i; j < len(c.items); j++ {
		c.index[c.items[j].ID] = j
	}
	return nil
}

// Clear empties the cart on explicit user request.
func (c *Cart) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.held {
		return ErrCheckoutInProgress
	}
	c.reset()
	return nil
}

func (c *Cart) reset() {
	c.items = nil
	c.index = make(map[string]int)
	c.totalItems = 0
	c.totalPrice = 0
}

// Items returns a copy of the cart lines in insertion order.
func (c *Cart) Items() []models.CartItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.copyItems()
}

func (c *Cart) copyItems() []models.CartItem {
	items := make([]models.CartItem, len(c.items))
	copy(items, c.items)
	return items
}

// CartSnapshot is a consistent view of the cart taken under a single lock.
type CartSnapshot struct {
	Items      []models.CartItem
	TotalItems int
	TotalPrice int
	Held       bool
}

// Snapshot returns the lines, totals and hold flag as of one instant.
func (c *Cart) Snapshot() CartSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return CartSnapshot{
		Items:      c.copyItems(),
		TotalItems: c.totalItems,
		TotalPrice: c.totalPrice,
		Held:       c.held,
	}
}

// Len returns the number of distinct lines.
func (c *Cart) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// TotalItems is the sum of all line quantities.
func (c *Cart) TotalItems() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.totalItems
}

// TotalPrice is the sum of price times quantity over all lines.
func (c *Cart) TotalPrice() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.totalPrice
}

// MOQViolations returns the lines whose quantity is below the product minimum.
func (c *Cart) MOQViolations() []models.CartItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return moqViolations(c.items)
}

func moqViolations(items []models.CartItem) []models.CartItem {
	var violations []models.CartItem
	for _, item := range items {
		if item.BelowMinimum() {
			violations = append(violations, item)
		}
	}
	return violations
}

// Held reports whether a checkout currently holds the cart.
func (c *Cart) Held() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.held
}

// BeginCheckout holds the cart for a checkout attempt and returns the lines being ordered.
func (c *Cart) BeginCheckout() ([]models.CartItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.held {
		return nil, ErrCheckoutInProgress
	}
	c.held = true
	return c.copyItems(), nil
}

// AbortCheckout releases the hold and leaves every line untouched.
func (c *Cart) AbortCheckout() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.held = false
}

// CompleteCheckout releases the hold and empties the cart in one step.
func (c *Cart) CompleteCheckout() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.held = false
	c.reset()
}
