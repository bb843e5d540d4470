package auth

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v2"
	"github.com/golang-jwt/jwt/v4"
)

// JWTMiddleware validates signature and expiry of the bearer token. Any
// failure, including a malformed token, is a 401.
func JWTMiddleware(secret string) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: []byte(secret),
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "invalid or expired token"})
		},
	})
}

// RevocationMiddleware rejects tokens whose jti is absent from the issued
// set. Runs after JWTMiddleware so the claims in ctx are already verified.
func RevocationMiddleware(service *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		jti, err := JTIFromCtx(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
		}
		if service.IsRevokedOrExpired(c.UserContext(), jti) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "token revoked or expired"})
		}
		return c.Next()
	}
}

func claimsFromCtx(c *fiber.Ctx) (jwt.MapClaims, error) {
	u := c.Locals("user")
	if u == nil {
		return nil, fiber.ErrUnauthorized
	}
	tok, ok := u.(*jwt.Token)
	if !ok {
		return nil, fiber.ErrUnauthorized
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fiber.ErrUnauthorized
	}
	return claims, nil
}

// CustomerIDFromCtx extracts the authenticated customer id from the JWT
// claims stored by the middleware.
func CustomerIDFromCtx(c *fiber.Ctx) (int, error) {
	claims, err := claimsFromCtx(c)
	if err != nil {
		return 0, err
	}
	switch v := claims["user_id"].(type) {
	case float64:
		return int(v), nil
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case string:
		id, err := strconv.Atoi(v)
		if err != nil {
			return 0, fiber.ErrUnauthorized
		}
		return id, nil
	default:
		return 0, fiber.ErrUnauthorized
	}
}

// JTIFromCtx extracts the token identifier claim.
func JTIFromCtx(c *fiber.Ctx) (string, error) {
	claims, err := claimsFromCtx(c)
	if err != nil {
		return "", err
	}
	jti, ok := claims["jti"].(string)
	if !ok || jti == "" {
		return "", fiber.ErrUnauthorized
	}
	return jti, nil
}
