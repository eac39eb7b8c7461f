package middleware

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/literacy-go-api/internal/utils"
	"github.com/noah-isme/literacy-go-api/pkg/token"
)

// JWTProtected returns a middleware that validates access tokens and stores the caller's
// id and role in request locals.
func JWTProtected(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authorization := c.Get("Authorization")
		if authorization == "" {
			return utils.FailWithCode(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "authorization header missing", nil)
		}

		const bearer = "Bearer "
		if len(authorization) < len(bearer) || !strings.EqualFold(authorization[:len(bearer)], bearer) {
			return utils.FailWithCode(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "invalid authorization header", nil)
		}

		tokenString := strings.TrimSpace(authorization[len(bearer):])
		if tokenString == "" {
			return utils.FailWithCode(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "invalid token", nil)
		}

		claims, err := token.Parse(secret, tokenString, token.PurposeAccess, time.Now())
		if err != nil {
			return utils.FailWithCode(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "invalid token", nil)
		}

		userID, err := claims.UserID()
		if err != nil {
			return utils.FailWithCode(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "invalid token claims", nil)
		}

		c.Locals("user_id", userID)
		c.Locals("user_role", strings.ToLower(strings.TrimSpace(claims.Role)))

		return c.Next()
	}
}
