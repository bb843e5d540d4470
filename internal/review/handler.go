package review

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

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/v1/product/:id<[0-9]+>/reviews", h.listReviews)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/api/v1/product/:id<[0-9]+>/reviews", h.addReview)
	app.Post("/api/v1/review/:id<[0-9]+>/approve", h.approveReview)
	app.Delete("/api/v1/review/:id<[0-9]+>", h.deleteReview)
}

type addReviewRequest struct {
	Rating int    `json:"rating"`
	Body   string `json:"body"`
}

func (h *Handler) listReviews(c *fiber.Ctx) error {
	productID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid product id"})
	}

	reviews, err := h.service.ListApproved(c.UserContext(), productID)
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "product not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "could not load reviews"})
	}
	return c.JSON(reviews)
}

func (h *Handler) addReview(c *fiber.Ctx) error {
	customerID, err := auth.CustomerIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	productID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid product id"})
	}

	payload := new(addReviewRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	created, err := h.service.Add(c.UserContext(), productID, customerID, payload.Rating, payload.Body)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidRating), errors.Is(err, ErrEmptyBody):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
		case errors.Is(err, ErrProductNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "product not found"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "could not create review"})
		}
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *Handler) approveReview(c *fiber.Ctx) error {
	reviewID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid review id"})
	}

	approved, err := h.service.Approve(c.UserContext(), reviewID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "review not found"})
		case errors.Is(err, ErrAlreadyApproved):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "review already approved"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "approval failed"})
		}
	}
	return c.JSON(approved)
}

func (h *Handler) deleteReview(c *fiber.Ctx) error {
	reviewID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid review id"})
	}

	if err := h.service.Delete(c.UserContext(), reviewID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "review not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "delete failed"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
