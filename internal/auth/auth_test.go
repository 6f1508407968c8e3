package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/voiceout/platform/internal/domain"
	"github.com/voiceout/platform/internal/persistence"
	"github.com/voiceout/platform/internal/session"
	apperrors "github.com/voiceout/platform/pkg/util/errorutil"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", 5)
	token, expires, err := tm.GenerateToken("sid-1", "dev-1")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(5*time.Minute), expires, time.Minute)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "sid-1", claims.SessionID)
	assert.Equal(t, "dev-1", claims.DeviceID)

	_, err = NewTokenManager("other", 5).ParseToken(token)
	assert.Error(t, err)

	_, _, err = tm.GenerateToken("", "dev-1")
	assert.Error(t, err)
}

func TestTokenExpiry(t *testing.T) {
	tm := NewTokenManager("secret", 1)
	token, _, err := tm.GenerateToken("sid", "")
	require.NoError(t, err)

	tm.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = tm.ParseToken(token)
	assert.Error(t, err)
}

func TestDemoCredentials(t *testing.T) {
	creds, err := NewDemoCredentials("demo1234", bcrypt.MinCost)
	require.NoError(t, err)

	assert.NoError(t, creds.Verify("kid@school.tw", "demo1234"))
	assert.ErrorIs(t, creds.Verify("kid@school.tw", "wrong"), ErrInvalidCredentials)
	assert.ErrorIs(t, creds.Verify(" ", "demo1234"), ErrInvalidCredentials)

	_, err = NewDemoCredentials("", bcrypt.MinCost)
	assert.Error(t, err)
}

func newProtectedApp(t *testing.T, kv persistence.KeyValueStore, tm *TokenManager, gate fiber.Handler) *fiber.App {
	t.Helper()
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).SendString(de.Code)
		},
	})
	mw := NewAuthMiddleware(tm, kv, zap.NewNop())
	app.Get("/me", mw.Handle, gate, func(c *fiber.Ctx) error {
		sess, ok := SessionFromContext(c)
		require.True(t, ok)
		return c.SendString(sess.User().Email)
	})
	return app
}

func loginSession(t *testing.T, kv persistence.KeyValueStore, sid, email string, role domain.Role) {
	t.Helper()
	sess := session.New(persistence.SessionScope(kv, sid), nil)
	_, err := sess.Login(context.Background(), email, role, nil)
	require.NoError(t, err)
}

func TestMiddlewareRestoresSession(t *testing.T) {
	kv := persistence.NewMemoryKV()
	tm := NewTokenManager("secret", 5)
	loginSession(t, kv, "s1", "kid@school.tw", domain.RoleVictim)
	app := newProtectedApp(t, kv, tm, RequirePermission(domain.PermSubmitReport))

	token, _, err := tm.GenerateToken("s1", "")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMiddlewareRejects(t *testing.T) {
	kv := persistence.NewMemoryKV()
	tm := NewTokenManager("secret", 5)
	loginSession(t, kv, "teacher", "t@school.tw", domain.RoleTeacher)
	app := newProtectedApp(t, kv, tm, RequirePermission(domain.PermSubmitReport))

	anonymous, _, err := tm.GenerateToken("never-logged-in", "")
	require.NoError(t, err)
	teacher, _, err := tm.GenerateToken("teacher", "")
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer abc", http.StatusUnauthorized},
		{"empty session", "Bearer " + anonymous, http.StatusUnauthorized},
		{"missing permission", "Bearer " + teacher, http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tc.want, resp.StatusCode)
		})
	}
}

func TestRequireAnyPermission(t *testing.T) {
	kv := persistence.NewMemoryKV()
	tm := NewTokenManager("secret", 5)
	loginSession(t, kv, "admin", "a@gov.tw", domain.RoleAdmin)
	app := newProtectedApp(t, kv, tm, RequireAnyPermission(domain.PermReferCases, domain.PermAssignCases))

	token, _, err := tm.GenerateToken("admin", "")
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMiddlewareScopesSelfHelpByDevice(t *testing.T) {
	kv := persistence.NewMemoryKV()
	tm := NewTokenManager("secret", 5)
	loginSession(t, kv, "s1", "kid@school.tw", domain.RoleVictim)

	app := fiber.New()
	mw := NewAuthMiddleware(tm, kv, zap.NewNop())
	app.Post("/note", mw.Handle, func(c *fiber.Ctx) error {
		storage, ok := SelfHelpStorageFromContext(c)
		require.True(t, ok)
		return storage.Set(c.UserContext(), "obrh_user_data", "x")
	})

	for _, did := range []string{"dev-1", ""} {
		token, _, err := tm.GenerateToken("s1", did)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodPost, "/note", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}

	snap := kv.Snapshot()
	assert.Equal(t, "x", snap["device:dev-1:obrh_user_data"])
	assert.Equal(t, "x", snap["session:s1:obrh_user_data"])
}
