package payment

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/api/v1/order/:id<[0-9]+>/payment", h.initializePayment)
	app.Post("/api/v1/payment/:id<[0-9]+>/process", h.processPayment)
	app.Patch("/api/v1/payment/:id<[0-9]+>/status", h.updateStatus)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) initializePayment(c *fiber.Ctx) error {
	orderID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid order id"})
	}

	p, err := h.service.Initialize(c.UserContext(), orderID)
	if err != nil {
		switch {
		case errors.Is(err, ErrOrderNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "order not found"})
		case errors.Is(err, ErrDuplicate):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "payment already exists for this order"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "payment initialization failed"})
		}
	}
	return c.Status(fiber.StatusCreated).JSON(p)
}

func (h *Handler) processPayment(c *fiber.Ctx) error {
	paymentID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid payment id"})
	}

	p, err := h.service.ProcessOnline(c.UserContext(), paymentID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "payment not found"})
		case errors.Is(err, ErrOrderNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "order not found"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "payment processing failed"})
		}
	}
	return c.JSON(p)
}

func (h *Handler) updateStatus(c *fiber.Ctx) error {
	paymentID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid payment id"})
	}

	payload := new(updateStatusRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	p, err := h.service.UpdateStatus(c.UserContext(), paymentID, payload.Status)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidStatus):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "unknown status"})
		case errors.Is(err, ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "payment not found"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "status update failed"})
		}
	}
	return c.JSON(p)
}
