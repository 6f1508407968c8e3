package dto

import (
	"encoding/json"
	"time"

	"github.com/voiceout/platform/internal/domain"
)

// LoginRequest payload. Profile is decoded according to Role.
type LoginRequest struct {
	Email    string          `json:"email"`
	Password string          `json:"password"`
	Role     string          `json:"role"`
	Name     string          `json:"name"`
	Profile  json.RawMessage `json:"profile"`
	DeviceID string          `json:"deviceId"`
}

// UpdateProfileRequest payload for PATCH /auth/me.
type UpdateProfileRequest struct {
	Name    *string         `json:"name"`
	Profile json.RawMessage `json:"profile"`
}

// AuthResponse contains the session token and the device id the browser
// should send on its next login.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	DeviceID  string    `json:"deviceId"`
}

// MeResponse describes the session user and what they may do.
type MeResponse struct {
	User        *domain.User        `json:"user"`
	Role        RoleResponse        `json:"role"`
	Permissions []domain.Permission `json:"permissions"`
}

// RoleResponse is display metadata for a role.
type RoleResponse struct {
	Role        domain.Role         `json:"role"`
	Label       string              `json:"label"`
	Icon        string              `json:"icon"`
	Description string              `json:"description"`
	Permissions []domain.Permission `json:"permissions,omitempty"`
}
