// file: internals/middlewares/auth/auth_middleware.go
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"github.com/tubuzu/learn-together-backend/internals/configs"
)

// AuthMiddleware verifies the bearer token and stores user_id in Locals.
// Identity management itself lives in an external service; the token is
// the only contract this backend relies on.
func AuthMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, err := extractBearerToken(c)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, err.Error())
		}

		secretKey := configs.JWTSecret
		if secretKey == "" {
			return fiber.NewError(fiber.StatusInternalServerError, "Missing JWT Secret")
		}

		claims := jwt.MapClaims{}
		parser := jwt.Parser{SkipClaimsValidation: true}
		if _, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(secretKey), nil
		}); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Token parse error")
		}

		if err := validateTokenExpiry(claims, 30*time.Second); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Token expired")
		}

		userID, err := extractUserID(claims)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Invalid or missing user ID")
		}
		c.Locals("user_id", userID)

		return c.Next()
	}
}

func extractBearerToken(c *fiber.Ctx) (string, error) {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") && parts[1] != "" {
			return parts[1], nil
		}
		return "", errors.New("Unauthorized - Malformed Authorization header")
	}
	// cookie fallback
	if tok := c.Cookies("access_token"); tok != "" {
		return tok, nil
	}
	return "", errors.New("Unauthorized - Missing token")
}

func validateTokenExpiry(claims jwt.MapClaims, leeway time.Duration) error {
	expRaw, ok := claims["exp"]
	if !ok {
		return errors.New("missing exp claim")
	}
	expFloat, ok := expRaw.(float64)
	if !ok {
		return errors.New("invalid exp claim")
	}
	exp := time.Unix(int64(expFloat), 0)
	if time.Now().After(exp.Add(leeway)) {
		return errors.New("token expired")
	}
	return nil
}

func extractUserID(claims jwt.MapClaims) (string, error) {
	for _, key := range []string{"user_id", "sub"} {
		if v, ok := claims[key].(string); ok && strings.TrimSpace(v) != "" {
			return v, nil
		}
	}
	return "", errors.New("user id claim not found")
}
