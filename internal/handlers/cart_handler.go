package handlers

import (
	"errors"

	"storefront/internal/metrics"
	"storefront/internal/middleware"
	"storefront/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CartHandler handles HTTP requests against the session's cart.
type CartHandler struct {
	catalog  *services.CatalogService
	validate *validator.Validate
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(catalog *services.CatalogService) *CartHandler {
	return &CartHandler{
		catalog:  catalog,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the cart routes with the Fiber app.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Delete("/", h.HandleClearCart)
	cartRoutes.Post("/items", h.HandleAddItem)
	cartRoutes.Patch("/items/:id", h.HandleUpdateItem)
	cartRoutes.Delete("/items/:id", h.HandleRemoveItem)
}

// AddItemRequest represents the request body for adding to the cart.
// A missing qty means the product's minimum order.
type AddItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Qty       int    `json:"qty"`
}

// UpdateItemRequest represents the request body for changing a line quantity.
type UpdateItemRequest struct {
	Qty int `json:"qty"`
}

// HandleGetCart returns the session's cart.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	return c.JSON(cartView(middleware.CurrentSession(c)))
}

// HandleAddItem adds a catalogue product to the cart.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	var req AddItemRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return failedValidation(c, err)
	}

	product, err := h.catalog.Product(req.ProductID)
	if err != nil {
		return respondError(c, err)
	}

	sess := middleware.CurrentSession(c)
	if err := sess.Cart.Add(*product, req.Qty); err != nil {
		return h.rejected(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(cartView(sess))
}

// HandleUpdateItem sets the quantity of a cart line.
func (h *CartHandler) HandleUpdateItem(c *fiber.Ctx) error {
	var req UpdateItemRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}

	sess := middleware.CurrentSession(c)
	if err := sess.Cart.UpdateQty(c.Params("id"), req.Qty); err != nil {
		return h.rejected(c, err)
	}
	return c.JSON(cartView(sess))
}

// HandleRemoveItem drops a line from the cart. Removing an absent line succeeds.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	sess := middleware.CurrentSession(c)
	if err := sess.Cart.Remove(c.Params("id")); err != nil {
		return h.rejected(c, err)
	}
	return c.JSON(cartView(sess))
}

// HandleClearCart empties the cart.
func (h *CartHandler) HandleClearCart(c *fiber.Ctx) error {
	sess := middleware.CurrentSession(c)
	if err := sess.Cart.Clear(); err != nil {
		return h.rejected(c, err)
	}
	return c.JSON(cartView(sess))
}

func (h *CartHandler) rejected(c *fiber.Ctx, err error) error {
	reason := "other"
	switch {
	case errors.Is(err, services.ErrBelowMinimumOrder):
		reason = "below_minimum"
	case errors.Is(err, services.ErrExceedsStock):
		reason = "exceeds_stock"
	case errors.Is(err, services.ErrCheckoutInProgress):
		reason = "checkout_in_progress"
	case errors.Is(err, services.ErrItemNotFound):
		reason = "not_in_cart"
	}
	metrics.CartRejections.WithLabelValues(reason).Inc()
	return respondError(c, err)
}
