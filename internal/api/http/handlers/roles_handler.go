package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/voiceout/platform/internal/api/dto"
	"github.com/voiceout/platform/internal/rbac"
)

// RolesHandler exposes the role catalogue used by the login screen.
type RolesHandler struct{}

// NewRolesHandler constructs handler.
func NewRolesHandler() *RolesHandler {
	return &RolesHandler{}
}

// List handles GET /roles.
func (h *RolesHandler) List(c *fiber.Ctx) error {
	roles := rbac.AllRoles()
	items := make([]dto.RoleResponse, 0, len(roles))
	for _, role := range roles {
		items = append(items, roleResponse(role, true))
	}
	return c.JSON(fiber.Map{"data": items})
}
