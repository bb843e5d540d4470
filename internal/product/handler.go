package product

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes read-only catalog endpoints. Catalog search and filtering
// belong to the storefront, not this backend.
type Handler struct {
	service ServiceInterface
}

func NewHandler(service ServiceInterface) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/v1/products", h.listProducts)
	app.Get("/api/v1/product/:id<[0-9]+>", h.getProduct)
}

func (h *Handler) listProducts(c *fiber.Ctx) error {
	products, err := h.service.List(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "could not load products"})
	}
	return c.JSON(products)
}

func (h *Handler) getProduct(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid id"})
	}

	p, err := h.service.GetByID(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "product not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "could not load product"})
	}
	return c.JSON(p)
}
