package handlers

import (
	"log"

	"storefront/internal/middleware"
	"storefront/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// DealerHandler toggles wholesale price visibility for the session.
type DealerHandler struct {
	auth     *services.DealerAuthService
	validate *validator.Validate
}

// NewDealerHandler creates a new DealerHandler.
func NewDealerHandler(auth *services.DealerAuthService) *DealerHandler {
	return &DealerHandler{
		auth:     auth,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the dealer routes with the Fiber app.
func (h *DealerHandler) RegisterRoutes(router fiber.Router) {
	dealerRoutes := router.Group("/dealer")
	dealerRoutes.Get("/", h.HandleStatus)
	dealerRoutes.Post("/login", h.HandleLogin)
	dealerRoutes.Post("/logout", h.HandleLogout)
}

// LoginRequest represents the request body for dealer login.
type LoginRequest struct {
	Password string `json:"password" validate:"required"`
}

// HandleStatus reports whether the session sees dealer prices.
func (h *DealerHandler) HandleStatus(c *fiber.Ctx) error {
	return c.JSON(middleware.CurrentSession(c).Dealer())
}

// HandleLogin checks the dealer password and returns the dealer proof.
func (h *DealerHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing login request body: %v", err)
		return badBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return failedValidation(c, err)
	}

	sess := middleware.CurrentSession(c)
	token, err := h.auth.Login(sess, req.Password)
	if err != nil {
		log.Printf("Dealer login failed for session %s: %v", sess.ID, err)
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":   "Login successful",
		"token":     token,
		"is_dealer": true,
	})
}

// HandleLogout hides dealer prices again.
func (h *DealerHandler) HandleLogout(c *fiber.Ctx) error {
	h.auth.Logout(middleware.CurrentSession(c))
	return c.JSON(fiber.Map{
		"message":   "Logged out",
		"is_dealer": false,
	})
}
