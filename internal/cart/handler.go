package cart

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/shopcore/shop-backend/internal/auth"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/v1/cart", h.getCart)
	app.Post("/api/v1/cart/items", h.addItem)
	app.Put("/api/v1/cart/items/:productId<[0-9]+>", h.updateItem)
	app.Delete("/api/v1/cart/items/:productId<[0-9]+>", h.removeItem)
	app.Delete("/api/v1/cart", h.clearCart)
}

type itemRequest struct {
	ProductID int `json:"productId"`
	Quantity  int `json:"quantity"`
}

func (h *Handler) getCart(c *fiber.Ctx) error {
	customerID, err := auth.CustomerIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	cart, err := h.service.GetOrCreate(c.UserContext(), customerID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "could not load cart"})
	}
	return c.JSON(cart)
}

func (h *Handler) addItem(c *fiber.Ctx) error {
	customerID, err := auth.CustomerIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	payload := new(itemRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.ProductID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid productId"})
	}

	cart, err := h.service.AddOrUpdateItem(c.UserContext(), customerID, payload.ProductID, payload.Quantity)
	if err != nil {
		return cartError(c, err)
	}
	return c.JSON(cart)
}

func (h *Handler) updateItem(c *fiber.Ctx) error {
	customerID, err := auth.CustomerIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	productID, err := strconv.Atoi(c.Params("productId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid productId"})
	}

	payload := new(itemRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	cart, err := h.service.UpdateItemQuantity(c.UserContext(), customerID, productID, payload.Quantity)
	if err != nil {
		return cartError(c, err)
	}
	return c.JSON(cart)
}

func (h *Handler) removeItem(c *fiber.Ctx) error {
	customerID, err := auth.CustomerIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	productID, err := strconv.Atoi(c.Params("productId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid productId"})
	}

	cart, err := h.service.RemoveItem(c.UserContext(), customerID, productID)
	if err != nil {
		return cartError(c, err)
	}
	return c.JSON(cart)
}

func (h *Handler) clearCart(c *fiber.Ctx) error {
	customerID, err := auth.CustomerIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	if err := h.service.Clear(c.UserContext(), customerID); err != nil {
		return cartError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// cartError maps domain failures to their HTTP class. Conflicts are the one
// case the client is expected to retry after a re-fetch.
func cartError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrInvalidQuantity):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "quantity must be positive"})
	case errors.Is(err, ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "cart was modified concurrently, retry"})
	case errors.Is(err, ErrLineNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "cart line not found"})
	case errors.Is(err, ErrProductNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "product not found"})
	case errors.Is(err, ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "cart not found"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "cart operation failed"})
	}
}
