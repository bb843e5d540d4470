package order

import (
	"context"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/shopcore/shop-backend/internal/auth"
)

// CartClearer clears a customer's cart after an order is placed.
type CartClearer interface {
	Clear(ctx context.Context, customerID int) error
}

type Handler struct {
	service *Service
	carts   CartClearer
	logger  *zap.Logger
}

func NewHandler(service *Service, carts CartClearer, logger *zap.Logger) *Handler {
	return &Handler{service: service, carts: carts, logger: logger}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/api/v1/orders", h.createOrder)
	app.Get("/api/v1/orders", h.listOrders)
	app.Get("/api/v1/order/:id<[0-9]+>", h.getOrder)
	app.Patch("/api/v1/order/:id<[0-9]+>/status", h.updateStatus)
	app.Delete("/api/v1/order/:id<[0-9]+>", h.deleteOrder)
}

type createOrderRequest struct {
	ShippingMethod string `json:"shippingMethod"`
	PaymentMethod  string `json:"paymentMethod"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) createOrder(c *fiber.Ctx) error {
	customerID, err := auth.CustomerIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	payload := new(createOrderRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	created, err := h.service.Create(c.UserContext(), customerID, payload.ShippingMethod, payload.PaymentMethod)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidArgument):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "unknown shipping or payment method"})
		case errors.Is(err, ErrEmptyCart):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "cart is empty"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "order creation failed"})
		}
	}

	// clearing is a follow-up, not part of order creation; a failure leaves
	// a stale cart but a valid order
	if err := h.carts.Clear(c.UserContext(), customerID); err != nil {
		h.logger.Warn("cart clear after order failed",
			zap.Int("customerId", customerID), zap.Int("orderId", created.ID), zap.Error(err))
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *Handler) listOrders(c *fiber.Ctx) error {
	q := ListQuery{
		Filter:    c.Query("filter"),
		SortBy:    SortField(c.Query("sortBy")),
		Ascending: c.QueryBool("asc"),
		Page:      c.QueryInt("page", 1),
		PageSize:  c.QueryInt("pageSize", 20),
	}

	switch q.SortBy {
	case "", SortByOrderDate, SortByTotalAmount, SortByTotalQuantity:
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "unknown sort field"})
	}

	orders, err := h.service.List(c.UserContext(), q)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "could not list orders"})
	}
	return c.JSON(orders)
}

func (h *Handler) getOrder(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid id"})
	}

	o, err := h.service.GetByID(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "order not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "could not load order"})
	}
	return c.JSON(o)
}

func (h *Handler) updateStatus(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid id"})
	}

	payload := new(updateStatusRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	updated, err := h.service.UpdateStatus(c.UserContext(), id, payload.Status)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "order not found"})
		case errors.Is(err, ErrInvalidArgument):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "unknown status"})
		case errors.Is(err, ErrInvalidTransition):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "status transition not allowed"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "status update failed"})
		}
	}
	return c.JSON(updated)
}

func (h *Handler) deleteOrder(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid id"})
	}

	if err := h.service.Delete(c.UserContext(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "order not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "order delete failed"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
