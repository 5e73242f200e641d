package handlers

import (
	"errors"
	"log"

	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CheckoutHandler handles order submission and the payment callback.
type CheckoutHandler struct {
	orders   *services.OrderService
	checkout *services.CheckoutValidator
	validate *validator.Validate
}

// NewCheckoutHandler creates a new CheckoutHandler.
func NewCheckoutHandler(orders *services.OrderService, checkout *services.CheckoutValidator) *CheckoutHandler {
	return &CheckoutHandler{
		orders:   orders,
		checkout: checkout,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the checkout routes with the Fiber app.
func (h *CheckoutHandler) RegisterRoutes(router fiber.Router) {
	checkoutRoutes := router.Group("/checkout")
	checkoutRoutes.Get("/", h.HandleGetCheckout)
	checkoutRoutes.Post("/", h.HandlePlaceOrder)
	checkoutRoutes.Post("/payment", h.HandlePaymentOutcome)
}

// CheckoutRequest represents the checkout form.
type CheckoutRequest struct {
	Name          string               `json:"name"`
	Phone         string               `json:"phone"`
	Address       string               `json:"address"`
	Pincode       string               `json:"pincode"`
	PaymentMethod models.PaymentMethod `json:"payment_method"`
}

// HandleGetCheckout describes what the checkout form needs and the session's
// checkout state. Cart-level blocks are reported with a redirect to the cart.
func (h *CheckoutHandler) HandleGetCheckout(c *fiber.Ctx) error {
	sess := middleware.CurrentSession(c)
	if err := h.checkout.ValidateCart(sess.Cart.Items()); err != nil {
		return respondError(c, err)
	}

	resp := fiber.Map{
		"state":           sess.CheckoutState(),
		"cart":            cartView(sess),
		"require_address": h.checkout.RequiresAddress(),
		"payment_enabled": h.orders.PaymentEnabled(),
	}
	if pending := sess.PendingOrder(); pending != nil {
		resp["pending_order_id"] = pending.OrderID
	}
	return c.JSON(resp)
}

// HandlePlaceOrder submits the session's cart as an order.
func (h *CheckoutHandler) HandlePlaceOrder(c *fiber.Ctx) error {
	var req CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}

	sess := middleware.CurrentSession(c)
	contact := models.OrderContact{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
		Pincode: req.Pincode,
	}

	result, err := h.orders.PlaceOrder(c.UserContext(), sess, contact, req.PaymentMethod)
	if err != nil {
		return respondError(c, err)
	}
	if result.State == services.CheckoutAwaitingPayment {
		return c.Status(fiber.StatusAccepted).JSON(result)
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

// HandlePaymentOutcome applies the payment popup's result to the pending order.
func (h *CheckoutHandler) HandlePaymentOutcome(c *fiber.Ctx) error {
	var outcome models.PaymentOutcome
	if err := c.BodyParser(&outcome); err != nil {
		return badBody(c, err)
	}
	if err := h.validate.Struct(outcome); err != nil {
		return failedValidation(c, err)
	}

	sess := middleware.CurrentSession(c)
	result, err := h.orders.ResolvePayment(c.UserContext(), sess, outcome)
	if errors.Is(err, services.ErrGatewayCancelled) {
		log.Printf("Checkout of session %s returned to cart after cancelled payment", sess.ID)
		return c.JSON(fiber.Map{
			"state":    services.CheckoutIdle,
			"message":  "Payment cancelled",
			"redirect": "/cart",
		})
	}
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}
