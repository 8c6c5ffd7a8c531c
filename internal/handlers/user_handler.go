package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"storefront/internal/middleware"
)

// Registrar registers and logs in users.
type Registrar interface {
	Register(ctx context.Context, username, password string) (string, error)
	Login(ctx context.Context, username, password string) (string, error)
}

// UserHandler handles registration and login.
type UserHandler struct {
	auth Registrar
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(auth Registrar) *UserHandler {
	return &UserHandler{auth: auth}
}

// RegisterRoutes registers the user routes with the Fiber app.
func (h *UserHandler) RegisterRoutes(router fiber.Router) {
	users := router.Group("/users")
	credentials := middleware.RequireBody("username", "password")
	users.Post("/register", credentials, h.HandleRegister)
	users.Post("/login", credentials, h.HandleLogin)
}

// CredentialsRequest is the body of register and login requests.
type CredentialsRequest struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required"`
}

// HandleRegister creates a user and answers 201 with a token for it.
func (h *UserHandler) HandleRegister(c *fiber.Ctx) error {
	var req CredentialsRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	token, err := h.auth.Register(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"token": token})
}

// HandleLogin verifies credentials and answers with a token.
func (h *UserHandler) HandleLogin(c *fiber.Ctx) error {
	var req CredentialsRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	token, err := h.auth.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"token": token})
}
