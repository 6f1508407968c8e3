package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/voiceout/platform/internal/domain"
	apperrors "github.com/voiceout/platform/pkg/util/errorutil"
)

// RequirePermission ensures the session user holds every listed permission.
func RequirePermission(perms ...domain.Permission) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, ok := SessionFromContext(c)
		if !ok || !sess.IsLoggedIn() {
			return apperrors.NewUnauthorized("login required")
		}
		if !sess.HasAllPermissions(perms...) {
			return apperrors.NewMissingPermission(permissionNames(perms)...)
		}
		return c.Next()
	}
}

// RequireAnyPermission ensures the session user holds at least one of perms.
func RequireAnyPermission(perms ...domain.Permission) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, ok := SessionFromContext(c)
		if !ok || !sess.IsLoggedIn() {
			return apperrors.NewUnauthorized("login required")
		}
		if !sess.HasAnyPermission(perms...) {
			return apperrors.NewMissingPermission(permissionNames(perms)...)
		}
		return c.Next()
	}
}

func permissionNames(perms []domain.Permission) []string {
	out := make([]string, len(perms))
	for i, p := range perms {
		out[i] = string(p)
	}
	return out
}
