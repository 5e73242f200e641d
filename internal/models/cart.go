package models

// CartItem is a product line in a cart.
type CartItem struct {
	Product
	Qty int `json:"qty"`
}

// Subtotal is the line amount, price times quantity.
func (i CartItem) Subtotal() int {
	return i.Price * i.Qty
}

// BelowMinimum reports whether the line is under its product's minimum order.
func (i CartItem) BelowMinimum() bool {
	return i.Qty < i.MOQ()
}
