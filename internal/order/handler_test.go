package order

import (
	"context"
	"io"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
)

// helper to build an app with a simple "bootstrap" middleware that injects a
// jwt.Token into locals when the X-User-ID header is provided. This avoids
// pulling in the full jwtware middleware and keeps tests lightweight.
func makeAppWithOrderHandler(h *Handler) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if v := c.Get("X-User-ID"); v != "" {
			id, err := strconv.Atoi(v)
			if err == nil {
				claims := jwt.MapClaims{"user_id": id, "jti": "test-jti"}
				tok := &jwt.Token{Claims: claims}
				c.Locals("user", tok)
			}
		}
		return c.Next()
	})
	h.RegisterProtectedRoutes(app)
	return app
}

func newHandlerApp(t *testing.T) (*fiber.App, fixture) {
	t.Helper()
	f := newFixture()
	handler := NewHandler(f.orders, f.carts, zap.NewNop())
	return makeAppWithOrderHandler(handler), f
}

func TestCreateOrderRoute_SnapshotsAndClearsCart(t *testing.T) {
	app, f := newHandlerApp(t)
	ctx := context.Background()

	if _, err := f.carts.AddOrUpdateItem(ctx, 7, 1, 2); err != nil {
		t.Fatal(err)
	}

	body := `{"shippingMethod":"Courier","paymentMethod":"CardOnline"}`
	req := httptest.NewRequest("POST", "/api/v1/orders", strings.NewReader(body))
	req.Header.Set("X-User-ID", "7")
	req.Header.Set("Content-Type", "application/json")
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if res.StatusCode != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d", res.StatusCode)
	}
	b, _ := io.ReadAll(res.Body)
	if !strings.Contains(string(b), `"totalAmount":200`) {
		t.Fatalf("expected order total in body, got %s", string(b))
	}

	// the cart is cleared as part of placing the order
	c, err := f.carts.GetOrCreate(ctx, 7)
	if err != nil {
		t.Fatal(err)
	}
	if len(c.Lines) != 0 {
		t.Fatalf("expected cart cleared after order, got %+v", c.Lines)
	}

	// an empty cart cannot be ordered again
	req = httptest.NewRequest("POST", "/api/v1/orders", strings.NewReader(body))
	req.Header.Set("X-User-ID", "7")
	req.Header.Set("Content-Type", "application/json")
	res, err = app.Test(req)
	if err != nil {
		t.Fatalf("second create failed: %v", err)
	}
	if res.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for empty cart, got %d", res.StatusCode)
	}
}

func TestOrderStatusRoute(t *testing.T) {
	app, f := newHandlerApp(t)
	ctx := context.Background()

	if _, err := f.carts.AddOrUpdateItem(ctx, 7, 1, 1); err != nil {
		t.Fatal(err)
	}
	o, err := f.orders.Create(ctx, 7, "Mail", "CashOnDelivery")
	if err != nil {
		t.Fatal(err)
	}
	path := "/api/v1/order/" + strconv.Itoa(o.ID) + "/status"

	req := httptest.NewRequest("PATCH", path, strings.NewReader(`{"status":"Processing"}`))
	req.Header.Set("X-User-ID", "7")
	req.Header.Set("Content-Type", "application/json")
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("status update failed: %v", err)
	}
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}

	// a backwards move is a conflict, not a bad request
	req = httptest.NewRequest("PATCH", path, strings.NewReader(`{"status":"Pending"}`))
	req.Header.Set("X-User-ID", "7")
	req.Header.Set("Content-Type", "application/json")
	res, err = app.Test(req)
	if err != nil {
		t.Fatalf("status update failed: %v", err)
	}
	if res.StatusCode != fiber.StatusConflict {
		t.Fatalf("expected 409 on disallowed transition, got %d", res.StatusCode)
	}

	req = httptest.NewRequest("PATCH", path, strings.NewReader(`{"status":"NoSuchStatus"}`))
	req.Header.Set("X-User-ID", "7")
	req.Header.Set("Content-Type", "application/json")
	res, err = app.Test(req)
	if err != nil {
		t.Fatalf("status update failed: %v", err)
	}
	if res.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400 on unknown status, got %d", res.StatusCode)
	}
}

func TestListOrdersRoute_RejectsUnknownSortField(t *testing.T) {
	app, _ := newHandlerApp(t)

	req := httptest.NewRequest("GET", "/api/v1/orders?sortBy=Nope", nil)
	req.Header.Set("X-User-ID", "7")
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if res.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for unknown sort field, got %d", res.StatusCode)
	}

	req = httptest.NewRequest("GET", "/api/v1/orders?sortBy=TotalAmount&asc=true", nil)
	req.Header.Set("X-User-ID", "7")
	res, err = app.Test(req)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
}
