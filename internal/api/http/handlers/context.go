package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/voiceout/platform/internal/api/dto"
	"github.com/voiceout/platform/internal/auth"
	"github.com/voiceout/platform/internal/domain"
	"github.com/voiceout/platform/internal/rbac"
	"github.com/voiceout/platform/internal/session"
	apperrors "github.com/voiceout/platform/pkg/util/errorutil"
)

func currentSession(c *fiber.Ctx) (*session.Session, *domain.User, error) {
	sess, ok := auth.SessionFromContext(c)
	if !ok {
		return nil, nil, apperrors.NewUnauthorized("login required")
	}
	user := sess.User()
	if user == nil {
		return nil, nil, apperrors.NewUnauthorized("login required")
	}
	return sess, user, nil
}

func roleResponse(role domain.Role, withPermissions bool) dto.RoleResponse {
	info, _ := rbac.RoleInfoFor(role)
	resp := dto.RoleResponse{
		Role:        role,
		Label:       info.Label,
		Icon:        info.Icon,
		Description: info.Description,
	}
	if withPermissions {
		resp.Permissions = rbac.PermissionsFor(role)
	}
	return resp
}
