package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/voiceout/platform/internal/api/dto"
	"github.com/voiceout/platform/internal/domain"
	"github.com/voiceout/platform/internal/rbac"
	"github.com/voiceout/platform/internal/service"
	"github.com/voiceout/platform/internal/session"
	apperrors "github.com/voiceout/platform/pkg/util/errorutil"
)

// AuthHandler exposes session endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" || req.Role == "" {
		return apperrors.NewValidationError("email, password and role required", nil)
	}

	input := service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		Name:     req.Name,
		DeviceID: req.DeviceID,
	}
	if role, err := domain.ParseRole(req.Role); err == nil && len(req.Profile) > 0 {
		profile, err := domain.DecodeProfile(role, req.Profile)
		if err != nil {
			return apperrors.NewValidationError("invalid profile", map[string]any{"reason": err.Error()})
		}
		input.Profile = profile
	}

	result, err := h.auth.Login(c.UserContext(), input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"user": result.User,
			"auth": dto.AuthResponse{
				Token:     result.Token,
				ExpiresAt: result.ExpiresAt,
				DeviceID:  result.DeviceID,
			},
		},
	})
}

// Logout handles POST /auth/logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sess, _, err := currentSession(c)
	if err != nil {
		return err
	}
	h.auth.Logout(c.UserContext(), sess)
	return c.SendStatus(http.StatusNoContent)
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	_, user, err := currentSession(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": meResponse(user)})
}

// UpdateMe handles PATCH /auth/me.
func (h *AuthHandler) UpdateMe(c *fiber.Ctx) error {
	sess, user, err := currentSession(c)
	if err != nil {
		return err
	}
	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	update := session.ProfileUpdate{Name: req.Name}
	if len(req.Profile) > 0 {
		profile, err := domain.DecodeProfile(user.Role, req.Profile)
		if err != nil {
			return apperrors.NewValidationError("invalid profile", map[string]any{"reason": err.Error()})
		}
		update.Profile = profile
	}
	if err := h.auth.UpdateProfile(c.UserContext(), sess, update); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": meResponse(sess.User())})
}

func meResponse(user *domain.User) dto.MeResponse {
	return dto.MeResponse{
		User:        user,
		Role:        roleResponse(user.Role, false),
		Permissions: rbac.PermissionsFor(user.Role),
	}
}
