package auth

import (
	"strings"

	"github.com/matercare/api/internal/authz"
	"github.com/matercare/api/internal/models"
	"github.com/matercare/api/internal/response"
	"github.com/matercare/api/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// JWTProtected validates the bearer token and stores the actor identity
// in request locals. The role comes from the token claim, not the
// database; a role change takes effect when the token expires.
func JWTProtected() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return response.Unauthorized(c, "Missing authorization token")
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			return response.Unauthorized(c, "Invalid token format")
		}

		userID, role, err := utils.ParseJWT(tokenParts[1])
		if err != nil {
			return response.Unauthorized(c, "Invalid or expired token")
		}

		c.Locals("user_id", userID)
		c.Locals("role", role)
		return c.Next()
	}
}

// Actor returns the authenticated actor for the request. Only valid
// behind JWTProtected.
func Actor(c *fiber.Ctx) authz.Actor {
	return authz.Actor{
		ID:   c.Locals("user_id").(uint),
		Role: c.Locals("role").(models.Role),
	}
}

// Require gates a route group on an authorization predicate. Only valid
// behind JWTProtected.
func Require(rule func(authz.Actor) bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !rule(Actor(c)) {
			return response.Forbidden(c, "You don't have permission to access this resource")
		}
		return c.Next()
	}
}
