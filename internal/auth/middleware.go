package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/voiceout/platform/internal/persistence"
	"github.com/voiceout/platform/internal/session"
	apperrors "github.com/voiceout/platform/pkg/util/errorutil"
)

const (
	sessionKey         = "auth_session"
	selfHelpStorageKey = "auth_selfhelp_storage"
	sessionIDKey       = "auth_session_id"
	deviceIDKey        = "auth_device_id"
)

// AuthMiddleware resolves the bearer token to a browser session and restores
// its state from storage.
type AuthMiddleware struct {
	tokens *TokenManager
	store  persistence.KeyValueStore
	logger *zap.Logger
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, store persistence.KeyValueStore, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, store: store, logger: logger}
}

// Handle enforces a logged-in session for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	storage := persistence.SessionScope(m.store, claims.SessionID)
	sess := session.New(storage, m.logger.With(zap.String("sid", claims.SessionID)))
	sess.Restore(c.UserContext())
	if !sess.IsLoggedIn() {
		return apperrors.NewUnauthorized("session expired")
	}

	// Self-help records belong to the browser, so they survive logout and
	// the next login from the same device. Tokens without a device fall
	// back to the session.
	var selfHelp persistence.KeyValueStore = storage
	if claims.DeviceID != "" {
		selfHelp = persistence.DeviceScope(m.store, claims.DeviceID)
	}

	c.Locals(sessionKey, sess)
	c.Locals(selfHelpStorageKey, selfHelp)
	c.Locals(sessionIDKey, claims.SessionID)
	c.Locals(deviceIDKey, claims.DeviceID)
	return c.Next()
}

// SessionFromContext retrieves the restored session.
func SessionFromContext(c *fiber.Ctx) (*session.Session, bool) {
	sess, ok := c.Locals(sessionKey).(*session.Session)
	return sess, ok && sess != nil
}

// SelfHelpStorageFromContext returns the storage holding the browser's
// self-help records.
func SelfHelpStorageFromContext(c *fiber.Ctx) (persistence.KeyValueStore, bool) {
	storage, ok := c.Locals(selfHelpStorageKey).(persistence.KeyValueStore)
	return storage, ok && storage != nil
}

// SessionIDFromContext returns the session id from the token.
func SessionIDFromContext(c *fiber.Ctx) string {
	sid, _ := c.Locals(sessionIDKey).(string)
	return sid
}

// DeviceIDFromContext returns the device id from the token, if any.
func DeviceIDFromContext(c *fiber.Ctx) string {
	did, _ := c.Locals(deviceIDKey).(string)
	return did
}
