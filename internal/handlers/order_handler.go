package handlers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/services"
)

// OrderHandler handles HTTP requests for orders.
//
// Check order matters: on /orders/:id routes the order's existence is checked
// before the caller's identity, then ownership, then the body.
type OrderHandler struct {
	service *services.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service: service,
	}
}

// RegisterRoutes registers the order routes with the Fiber app.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orders := router.Group("/orders")
	orders.Post("/", middleware.RequireUser, middleware.RequireBody("date"), h.HandleCreateOrder)
	orders.Get("/", middleware.RequireUser, h.HandleGetOrders)
	orders.Get("/:id", h.HandleGetOrderByID)
	orders.Post("/:id/products", h.HandleAddProduct)
	orders.Get("/:id/products", h.HandleGetOrderProducts)
}

// CreateOrderRequest is the body of POST /orders.
type CreateOrderRequest struct {
	Date string  `json:"date" validate:"required"`
	Note *string `json:"note"`
}

// AddProductRequest is the body of POST /orders/:id/products.
type AddProductRequest struct {
	ProductID int `json:"productId" validate:"required"`
	Quantity  int `json:"quantity" validate:"required,gt=0,max=2147483647"`
}

var dateLayouts = []string{"2006-01-02", time.RFC3339}

// parseDate keeps only the calendar date, read in the value's own offset,
// since orders.date is a DATE column.
func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unrecognized date %q", services.ErrInvalidBody, s)
}

// HandleCreateOrder creates an order owned by the caller.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var req CreateOrderRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return err
	}

	order, err := h.service.CreateOrder(c.UserContext(), middleware.CurrentUser(c), date, req.Note)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

// HandleGetOrders lists the caller's orders.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	orders, err := h.service.GetOrdersForUser(c.UserContext(), middleware.CurrentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(orders)
}

// authorizedOrder resolves :id to an order the caller owns.
func (h *OrderHandler) authorizedOrder(c *fiber.Ctx) (*models.Order, error) {
	id, ok := idParam(c)
	if !ok {
		return nil, services.ErrOrderNotFound
	}
	return h.service.AuthorizeOrder(c.UserContext(), id, middleware.CurrentUser(c))
}

// HandleGetOrderByID returns one of the caller's orders.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	order, err := h.authorizedOrder(c)
	if err != nil {
		return err
	}
	return c.JSON(order)
}

// HandleAddProduct attaches a product to one of the caller's orders. The body
// is only inspected once the order is known to be the caller's.
func (h *OrderHandler) HandleAddProduct(c *fiber.Ctx) error {
	order, err := h.authorizedOrder(c)
	if err != nil {
		return err
	}

	if err := middleware.CheckBody(c, "productId", "quantity"); err != nil {
		return err
	}
	var req AddProductRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	item, err := h.service.AddProduct(c.UserContext(), order, req.ProductID, req.Quantity)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// HandleGetOrderProducts lists the products on one of the caller's orders.
func (h *OrderHandler) HandleGetOrderProducts(c *fiber.Ctx) error {
	order, err := h.authorizedOrder(c)
	if err != nil {
		return err
	}

	products, err := h.service.GetProducts(c.UserContext(), order)
	if err != nil {
		return err
	}
	return c.JSON(products)
}
