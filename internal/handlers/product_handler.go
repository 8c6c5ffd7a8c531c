package handlers

import (
	"github.com/gofiber/fiber/v2"

	"storefront/internal/middleware"
	"storefront/internal/services"
)

// ProductHandler handles HTTP requests for products. All routes are read-only.
type ProductHandler struct {
	service *services.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service: service,
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	products := router.Group("/products")
	products.Get("/", h.HandleGetProducts)
	products.Get("/:id", h.HandleGetProductByID)
	products.Get("/:id/orders", middleware.RequireUser, h.HandleGetProductOrders)
}

// HandleGetProducts lists every product. Public.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(products)
}

// HandleGetProductByID returns one product. Public.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	id, ok := idParam(c)
	if !ok {
		return services.ErrProductNotFound
	}

	product, err := h.service.GetProductByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(product)
}

// HandleGetProductOrders lists the caller's orders that include the product.
func (h *ProductHandler) HandleGetProductOrders(c *fiber.Ctx) error {
	id, ok := idParam(c)
	if !ok {
		return services.ErrProductNotFound
	}

	orders, err := h.service.GetOrdersForProduct(c.UserContext(), id, middleware.CurrentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(orders)
}
