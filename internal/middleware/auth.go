// Package middleware provides HTTP middleware components for the application.
// It includes authentication, authorization and school scoping for the fiber router.
package middleware

import (
	"context"
	"log"
	"strings"

	"feedesk/internal/models"
	"feedesk/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// TokenVersionSource reports the current token version of a user.
type TokenVersionSource interface {
	GetUserTokenVersion(ctx context.Context, userID uint) (int, error)
}

// AuthMiddleware handles JWT token validation and user authentication.
type AuthMiddleware struct {
	versions TokenVersionSource
}

func NewAuthMiddleware(versions TokenVersionSource) *AuthMiddleware {
	return &AuthMiddleware{
		versions: versions,
	}
}

// Handler validates the bearer token and stores the claims in the request locals.
// A token issued before the last logout or password change is refused.
func (m *AuthMiddleware) Handler(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing authorization header"})
	}

	if !strings.HasPrefix(authHeader, "Bearer ") {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid authorization format"})
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	_, claims, err := utils.ParseToken(tokenString)
	if err != nil {
		log.Printf("Token validation error: %v", err)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid token"})
	}

	currentVersion, err := m.versions.GetUserTokenVersion(c.UserContext(), claims.UserID)
	if err != nil {
		log.Printf("Error getting token version for user %d: %v", claims.UserID, err)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid token"})
	}
	if claims.TokenVersion != currentVersion {
		log.Printf("Token version mismatch for user %d. Token: %d, DB: %d",
			claims.UserID, claims.TokenVersion, currentVersion)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "session expired"})
	}

	c.Locals("claims", claims)
	c.Locals("userID", claims.UserID)

	return c.Next()
}

// AdminAuthMiddleware verifies that the request has valid admin claims.
func AdminAuthMiddleware(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid claims"})
	}

	if claims.Role != models.RoleAdmin {
		log.Printf("Access denied: user %d has role %s, not admin", claims.UserID, claims.Role)
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Insufficient permissions"})
	}

	return c.Next()
}

// HasPermission returns a middleware that checks for a specific permission.
func HasPermission(permission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals("claims").(*models.UserClaims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
		}

		// If user is admin, allow all permissions
		if claims.Role == models.RoleAdmin {
			return c.Next()
		}

		if claims.HasPermission(permission) {
			return c.Next()
		}

		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Insufficient permissions"})
	}
}

// SchoolScope refuses requests whose :schoolId route parameter is outside the caller's
// school.
func SchoolScope(param string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals("claims").(*models.UserClaims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
		}

		schoolID := c.Params(param)
		if !claims.CanAccessSchool(schoolID) {
			log.Printf("School access denied: user %d (school %s) requested %s", claims.UserID, claims.SchoolID, schoolID)
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "no access to this school", "code": "SCHOOL_ACCESS_DENIED"})
		}
		return c.Next()
	}
}
