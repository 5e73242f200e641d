package handlers

import (
	"storefront/internal/models"
	"storefront/internal/services"
)

// ProductView is a product as shown to one session. Price is null when the
// session may not see wholesale prices.
type ProductView struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Price        *int          `json:"price"`
	PriceLabel   string        `json:"price_label,omitempty"`
	ImageURL     string        `json:"image_url"`
	Season       models.Season `json:"season"`
	Stock        *int          `json:"stock,omitempty"`
	MinimumOrder int           `json:"minimum_order"`
	OutOfStock   bool          `json:"out_of_stock"`
}

// CartLineView is one cart line with its subtotal.
type CartLineView struct {
	ProductView
	Qty          int  `json:"qty"`
	Subtotal     *int `json:"subtotal"`
	BelowMinimum bool `json:"below_minimum"`
}

// MOQViolationView names a line that is under its minimum order.
type MOQViolationView struct {
	ProductID    string `json:"product_id"`
	Name         string `json:"name"`
	Qty          int    `json:"qty"`
	MinimumOrder int    `json:"minimum_order"`
}

// CartView is the cart of one session.
type CartView struct {
	Items         []CartLineView         `json:"items"`
	TotalItems    int                    `json:"total_items"`
	TotalPrice    *int                   `json:"total_price"`
	PriceLabel    string                 `json:"price_label,omitempty"`
	MOQViolations []MOQViolationView     `json:"moq_violations"`
	CanCheckout   bool                   `json:"can_checkout"`
	CheckoutState services.CheckoutState `json:"checkout_state"`
}

func productView(dealer models.DealerSession, p models.Product) ProductView {
	view := ProductView{
		ID:           p.ID,
		Name:         p.Name,
		Price:        services.VisiblePrice(dealer, p.Price),
		ImageURL:     p.ImageURL,
		Season:       p.Season,
		Stock:        p.Stock,
		MinimumOrder: p.MOQ(),
		OutOfStock:   p.OutOfStock(),
	}
	if view.Price == nil {
		view.PriceLabel = services.PriceHiddenLabel
	}
	return view
}

func productViews(dealer models.DealerSession, products []models.Product) []ProductView {
	views := make([]ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, productView(dealer, p))
	}
	return views
}

func cartView(sess *services.Session) CartView {
	dealer := sess.Dealer()
	snap := sess.Cart.Snapshot()
	items := snap.Items

	view := CartView{
		Items:         make([]CartLineView, 0, len(items)),
		TotalPrice:    services.VisiblePrice(dealer, snap.TotalPrice),
		TotalItems:    snap.TotalItems,
		MOQViolations: []MOQViolationView{},
		CheckoutState: sess.CheckoutState(),
	}
	if view.TotalPrice == nil {
		view.PriceLabel = services.PriceHiddenLabel
	}

	for _, item := range items {
		view.Items = append(view.Items, CartLineView{
			ProductView:  productView(dealer, item.Product),
			Qty:          item.Qty,
			Subtotal:     services.VisiblePrice(dealer, item.Subtotal()),
			BelowMinimum: item.BelowMinimum(),
		})
		if item.BelowMinimum() {
			view.MOQViolations = append(view.MOQViolations, MOQViolationView{
				ProductID:    item.ID,
				Name:         item.Name,
				Qty:          item.Qty,
				MinimumOrder: item.MOQ(),
			})
		}
	}
	view.CanCheckout = len(items) > 0 && len(view.MOQViolations) == 0 && !snap.Held
	return view
}
