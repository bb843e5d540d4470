package customer

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/shopcore/shop-backend/internal/auth"
)

// CartCreator lets registration set up the customer's cart without this
// package depending on the cart service type.
type CartCreator interface {
	CreateFor(ctx context.Context, customerID int) error
}

type Handler struct {
	service *Service
	auth    *auth.Service
	carts   CartCreator
	logger  *zap.Logger
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signUpRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
}

func (r *signUpRequest) isMissingRequiredFields() bool {
	return r.Email == "" || r.Password == "" || r.FirstName == ""
}

func NewHandler(service *Service, authService *auth.Service, carts CartCreator, logger *zap.Logger) *Handler {
	return &Handler{service: service, auth: authService, carts: carts, logger: logger}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Post("/api/v1/sign-in", h.signIn)
	app.Post("/api/v1/sign-up", h.signUp)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/api/v1/sign-out", h.signOut)
	app.Get("/api/v1/profile", h.getProfile)
}

func (h *Handler) signIn(c *fiber.Ctx) error {
	payload := new(signInRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	cust, err := h.service.Authenticate(c.UserContext(), payload.Email, payload.Password)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "invalid email or password"})
	}

	issued, err := h.auth.IssueToken(c.UserContext(), cust.ID, "customer")
	if err != nil {
		h.logger.Error("token issue failed", zap.Int("customerId", cust.ID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "failed to generate token"})
	}

	return c.JSON(fiber.Map{
		"customer":  sanitizeCustomer(cust),
		"token":     issued.Token,
		"expiresAt": issued.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

func (h *Handler) signUp(c *fiber.Ctx) error {
	payload := new(signUpRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.isMissingRequiredFields() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "missing required fields"})
	}

	created, err := h.service.Register(c.UserContext(), Customer{
		Email:     payload.Email,
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Phone:     payload.Phone,
	}, payload.Password)
	if err != nil {
		if errors.Is(err, ErrEmailExists) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "email already exists"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "registration failed"})
	}

	// each customer owns exactly one cart, created at registration
	if err := h.carts.CreateFor(c.UserContext(), created.ID); err != nil {
		h.logger.Warn("cart init failed", zap.Int("customerId", created.ID), zap.Error(err))
	}

	issued, err := h.auth.IssueToken(c.UserContext(), created.ID, "customer")
	if err != nil {
		h.logger.Error("token issue failed", zap.Int("customerId", created.ID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "failed to generate token"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"customer":  sanitizeCustomer(created),
		"token":     issued.Token,
		"expiresAt": issued.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

func (h *Handler) signOut(c *fiber.Ctx) error {
	jti, err := auth.JTIFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	revoked, err := h.auth.Revoke(c.UserContext(), jti)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "sign out failed"})
	}
	return c.JSON(fiber.Map{"revoked": revoked})
}

func (h *Handler) getProfile(c *fiber.Ctx) error {
	customerID, err := auth.CustomerIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	cust, err := h.service.GetByID(c.UserContext(), customerID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "customer not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "could not load profile"})
	}
	return c.JSON(sanitizeCustomer(cust))
}

func sanitizeCustomer(c Customer) Customer {
	c.Password = ""
	return c
}
