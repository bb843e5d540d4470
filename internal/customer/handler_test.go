package customer

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/shopcore/shop-backend/internal/auth"
)

type cartCreatorStub struct {
	created []int
}

func (s *cartCreatorStub) CreateFor(ctx context.Context, customerID int) error {
	s.created = append(s.created, customerID)
	return nil
}

// newAuthApp wires the handler behind the real JWT and revocation middleware,
// so protected routes see exactly what they see in production.
func newAuthApp(t *testing.T) (*fiber.App, *cartCreatorStub) {
	t.Helper()
	const secret = "test-secret"

	hasher := auth.NewHasher(bcrypt.MinCost)
	signer := auth.NewSigner(secret, time.Hour)
	authService := auth.NewService(auth.NewInMemoryTokenRepository(), signer, zap.NewNop())
	service := NewService(NewInMemoryRepository(nil), hasher, zap.NewNop())
	carts := &cartCreatorStub{}
	handler := NewHandler(service, authService, carts, zap.NewNop())

	app := fiber.New()
	handler.RegisterPublicRoutes(app)
	app.Use(auth.JWTMiddleware(secret))
	app.Use(auth.RevocationMiddleware(authService))
	handler.RegisterProtectedRoutes(app)
	return app, carts
}

type authResponse struct {
	Token    string `json:"token"`
	Customer struct {
		ID    int    `json:"id"`
		Email string `json:"email"`
	} `json:"customer"`
}

func TestSignUpSignInLifecycle(t *testing.T) {
	app, carts := newAuthApp(t)

	signUpJSON := `{"email":"ann@example.com","password":"hunter22","firstName":"Ann","lastName":"Chovey"}`
	req := httptest.NewRequest("POST", "/api/v1/sign-up", strings.NewReader(signUpJSON))
	req.Header.Set("Content-Type", "application/json")
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("sign-up request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusCreated {
		t.Fatalf("expected 201 on sign-up, got %d", res.StatusCode)
	}

	var signedUp authResponse
	if err := json.NewDecoder(res.Body).Decode(&signedUp); err != nil {
		t.Fatalf("failed to decode sign-up response: %v", err)
	}
	if signedUp.Token == "" {
		t.Fatal("sign-up should return a token")
	}
	if len(carts.created) != 1 || carts.created[0] != signedUp.Customer.ID {
		t.Fatalf("sign-up should create the customer's cart, got %v", carts.created)
	}

	// duplicate email is a conflict
	req = httptest.NewRequest("POST", "/api/v1/sign-up", strings.NewReader(signUpJSON))
	req.Header.Set("Content-Type", "application/json")
	res, err = app.Test(req)
	if err != nil {
		t.Fatalf("duplicate sign-up request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusConflict {
		t.Fatalf("expected 409 on duplicate email, got %d", res.StatusCode)
	}

	// wrong password is rejected without leaking which part was wrong
	badJSON := `{"email":"ann@example.com","password":"wrong"}`
	req = httptest.NewRequest("POST", "/api/v1/sign-in", strings.NewReader(badJSON))
	req.Header.Set("Content-Type", "application/json")
	res, err = app.Test(req)
	if err != nil {
		t.Fatalf("bad sign-in request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 on bad password, got %d", res.StatusCode)
	}

	signInJSON := `{"email":"ann@example.com","password":"hunter22"}`
	req = httptest.NewRequest("POST", "/api/v1/sign-in", strings.NewReader(signInJSON))
	req.Header.Set("Content-Type", "application/json")
	res, err = app.Test(req)
	if err != nil {
		t.Fatalf("sign-in request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 on sign-in, got %d", res.StatusCode)
	}

	var signedIn authResponse
	if err := json.NewDecoder(res.Body).Decode(&signedIn); err != nil {
		t.Fatalf("failed to decode sign-in response: %v", err)
	}

	// the fresh token reaches the profile
	req = httptest.NewRequest("GET", "/api/v1/profile", nil)
	req.Header.Set("Authorization", "Bearer "+signedIn.Token)
	res, err = app.Test(req)
	if err != nil {
		t.Fatalf("profile request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 on profile, got %d", res.StatusCode)
	}
	b, _ := io.ReadAll(res.Body)
	if !strings.Contains(string(b), "ann@example.com") {
		t.Fatalf("profile body missing email: %s", string(b))
	}
	if strings.Contains(string(b), "hunter22") {
		t.Fatal("profile body must not expose the password")
	}

	// sign out revokes the token server-side
	req = httptest.NewRequest("POST", "/api/v1/sign-out", nil)
	req.Header.Set("Authorization", "Bearer "+signedIn.Token)
	res, err = app.Test(req)
	if err != nil {
		t.Fatalf("sign-out request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 on sign-out, got %d", res.StatusCode)
	}

	// the token still carries a valid signature, but its jti is gone
	req = httptest.NewRequest("GET", "/api/v1/profile", nil)
	req.Header.Set("Authorization", "Bearer "+signedIn.Token)
	res, err = app.Test(req)
	if err != nil {
		t.Fatalf("revoked profile request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 after sign-out, got %d", res.StatusCode)
	}

	// the token from sign-up has its own jti and keeps working
	req = httptest.NewRequest("GET", "/api/v1/profile", nil)
	req.Header.Set("Authorization", "Bearer "+signedUp.Token)
	res, err = app.Test(req)
	if err != nil {
		t.Fatalf("second-token profile request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected the sign-up token to remain valid, got %d", res.StatusCode)
	}
}

func TestProtectedRoutesRejectMissingAndGarbageTokens(t *testing.T) {
	app, _ := newAuthApp(t)

	req := httptest.NewRequest("GET", "/api/v1/profile", nil)
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 without a token, got %d", res.StatusCode)
	}

	req = httptest.NewRequest("GET", "/api/v1/profile", nil)
	req.Header.Set("Authorization", "Bearer not.a.jwt")
	res, err = app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 with a garbage token, got %d", res.StatusCode)
	}
}

func TestSignUp_MissingFields(t *testing.T) {
	app, _ := newAuthApp(t)

	req := httptest.NewRequest("POST", "/api/v1/sign-up", strings.NewReader(`{"email":"x@example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for missing fields, got %d", res.StatusCode)
	}
}
