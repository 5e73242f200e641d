package handlers

import (
	"fmt"
	"log"

	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for submitted orders.
type OrderHandler struct {
	service *services.OrderQueryService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderQueryService) *OrderHandler {
	return &OrderHandler{
		service: service,
	}
}

// RegisterRoutes registers the order routes with the Fiber app.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", h.HandleGetOrders)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
	orderRoutes.Patch("/:id/status", h.HandleUpdateOrderStatus)
}

// HandleGetOrders retrieves the orders placed with ?phone=.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	orders, err := h.service.FindByPhone(c.UserContext(), c.Query("phone"))
	if err != nil {
		log.Printf("Error getting orders by phone: %v", err)
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"orders": orders})
}

// HandleGetOrderByID retrieves every record of a single order.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	orderID := c.Params("id")
	records, err := h.service.GetOrder(orderID)
	if err != nil {
		log.Printf("Error getting order by ID %s: %v", orderID, err)
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"order_id": orderID, "records": records})
}

// HandleUpdateOrderStatus updates the status of an existing order.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	orderID := c.Params("id")
	var updateData struct {
		Status string `json:"status"`
	}

	if err := c.BodyParser(&updateData); err != nil {
		log.Printf("Error parsing request body for status update: %v", err)
		return badBody(c, err)
	}

	if updateData.Status == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Status is required for order status update.",
		})
	}

	if err := h.service.UpdateOrderStatus(orderID, models.OrderStatus(updateData.Status)); err != nil {
		log.Printf("Error updating order status for order %s: %v", orderID, err)
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Order %s status updated successfully to %s", orderID, updateData.Status),
	})
}
