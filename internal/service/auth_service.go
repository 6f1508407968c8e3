package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/voiceout/platform/internal/auth"
	"github.com/voiceout/platform/internal/domain"
	"github.com/voiceout/platform/internal/observability"
	"github.com/voiceout/platform/internal/persistence"
	"github.com/voiceout/platform/internal/repository"
	"github.com/voiceout/platform/internal/session"
	apperrors "github.com/voiceout/platform/pkg/util/errorutil"
)

// LoginInput is a demo login request. Profile is only used for emails the
// directory does not know. DeviceID is the id a previous login returned to
// this browser; an empty or malformed one gets a fresh id.
type LoginInput struct {
	Email    string
	Password string
	Role     string
	Name     string
	Profile  domain.Profile
	DeviceID string
}

// LoginResult carries the opened session and its bearer token.
type LoginResult struct {
	User      *domain.User
	SessionID string
	DeviceID  string
	Token     string
	ExpiresAt time.Time
}

// AuthService opens and closes browser sessions.
type AuthService struct {
	store       persistence.KeyValueStore
	tokens      *auth.TokenManager
	credentials *auth.DemoCredentials
	users       repository.UserRepository
	metrics     *observability.Metrics
	logger      *zap.Logger
}

// AuthDependencies bundles what the auth service needs.
type AuthDependencies struct {
	Store       persistence.KeyValueStore
	Tokens      *auth.TokenManager
	Credentials *auth.DemoCredentials
	UserRepo    repository.UserRepository
	Metrics     *observability.Metrics
	Logger      *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		store:       deps.Store,
		tokens:      deps.Tokens,
		credentials: deps.Credentials,
		users:       deps.UserRepo,
		metrics:     deps.Metrics,
		logger:      logger,
	}
}

// TokenManager exposes the token manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokens
}

// Login checks the demo credentials, opens a fresh session and issues its
// token.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	role, err := domain.ParseRole(input.Role)
	if err != nil {
		return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": input.Role})
	}
	if err := s.credentials.Verify(email, input.Password); err != nil {
		s.metrics.RecordLogin(string(role), false)
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}

	name := strings.TrimSpace(input.Name)
	profile := input.Profile
	known, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if known.Role != role {
			s.metrics.RecordLogin(string(role), false)
			return nil, apperrors.NewValidationError("email is registered with another role", map[string]any{"role": known.Role})
		}
		profile = known.Profile
		if name == "" {
			name = known.Name
		}
	case errors.Is(err, repository.ErrNotFound):
	default:
		return nil, err
	}
	if profile != nil && profile.Role() != role {
		return nil, apperrors.NewValidationError("profile does not match role", map[string]any{"role": role})
	}

	sid := uuid.NewString()
	sess := session.New(persistence.SessionScope(s.store, sid), s.logger.With(zap.String("sid", sid)))
	if _, err := sess.Login(ctx, email, role, profile); err != nil {
		return nil, apperrors.NewValidationError(err.Error(), nil)
	}
	if name != "" {
		if err := sess.UpdateProfile(ctx, session.ProfileUpdate{Name: &name}); err != nil {
			return nil, err
		}
	}

	deviceID := input.DeviceID
	if _, err := uuid.Parse(deviceID); err != nil {
		deviceID = uuid.NewString()
	}
	token, exp, err := s.tokens.GenerateToken(sid, deviceID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	s.metrics.RecordLogin(string(role), true)
	s.logger.Info("session opened",
		zap.String("sid", sid),
		zap.String("device", deviceID),
		zap.String("role", string(role)),
	)
	return &LoginResult{User: sess.User(), SessionID: sid, DeviceID: deviceID, Token: token, ExpiresAt: exp}, nil
}

// Logout clears the session's auth state. Self-help data is keyed by device
// and is picked up again by the next login that presents the same device id.
func (s *AuthService) Logout(ctx context.Context, sess *session.Session) {
	if sess == nil {
		return
	}
	sess.Logout(ctx)
}

// UpdateProfile applies a profile edit to the session user. Directory
// accounts keep the profile the directory assigns; only their name changes.
func (s *AuthService) UpdateProfile(ctx context.Context, sess *session.Session, update session.ProfileUpdate) error {
	if sess == nil || sess.User() == nil {
		return apperrors.NewUnauthorized("login required")
	}
	if update.Profile != nil {
		_, err := s.users.GetByEmail(ctx, sess.User().Email)
		switch {
		case err == nil:
			return apperrors.NewForbidden("profile is managed by the directory")
		case errors.Is(err, repository.ErrNotFound):
		default:
			return err
		}
	}
	if err := sess.UpdateProfile(ctx, update); err != nil {
		if errors.Is(err, domain.ErrProfileMismatch) {
			return apperrors.NewValidationError("profile does not match role", nil)
		}
		return err
	}
	return nil
}
