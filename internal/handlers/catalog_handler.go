package handlers

import (
	"log"

	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CatalogHandler handles HTTP requests for the product catalogue.
type CatalogHandler struct {
	catalog *services.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(catalog *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// RegisterRoutes registers the catalogue routes with the Fiber app.
func (h *CatalogHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Post("/refresh", h.HandleRefresh)
	productRoutes.Get("/:id", h.HandleGetProductByID)
}

// HandleGetProducts lists the catalogue, optionally filtered by ?season=.
func (h *CatalogHandler) HandleGetProducts(c *fiber.Ctx) error {
	season := models.ParseSeason(c.Query("season", string(models.SeasonAll)))
	products, err := h.catalog.Products(season)
	if err != nil {
		log.Printf("Error getting products: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve products",
			"error":   err.Error(),
		})
	}

	sess := middleware.CurrentSession(c)
	return c.JSON(fiber.Map{
		"products": productViews(sess.Dealer(), products),
		"season":   season,
		"notice":   h.catalog.Notice(),
	})
}

// HandleGetProductByID retrieves a single product.
func (h *CatalogHandler) HandleGetProductByID(c *fiber.Ctx) error {
	product, err := h.catalog.Product(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	sess := middleware.CurrentSession(c)
	return c.JSON(productView(sess.Dealer(), *product))
}

// HandleRefresh reloads the catalogue from the feed. A feed failure is not an
// HTTP error: the fallback catalogue is served with a notice.
func (h *CatalogHandler) HandleRefresh(c *fiber.Ctx) error {
	resp := fiber.Map{}
	if err := h.catalog.Refresh(c.UserContext()); err != nil {
		resp["error"] = err.Error()
	}
	resp["notice"] = h.catalog.Notice()
	resp["message"] = "Catalogue refreshed"
	return c.JSON(resp)
}
