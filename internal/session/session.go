// Package session holds the authenticated identity of one browser session,
// mirrored to key-value storage so a reload restores it.
package session

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"github.com/voiceout/platform/internal/domain"
	"github.com/voiceout/platform/internal/persistence"
	"github.com/voiceout/platform/internal/rbac"
)

// Storage keys. The flat legacy keys are still written so older clients
// keep working.
const (
	KeyUserData   = "userData"
	KeyIsLoggedIn = "isLoggedIn"
	KeyUserEmail  = "userEmail"
	KeyUserRole   = "userRole"
)

var allKeys = []string{KeyIsLoggedIn, KeyUserEmail, KeyUserRole, KeyUserData}

// ProfileUpdate is a partial update of the current user.
type ProfileUpdate struct {
	Name    *string
	Profile domain.Profile
}

// Session is the auth state of one browser session. It is not safe for
// concurrent use; build one per request.
type Session struct {
	store  persistence.KeyValueStore
	logger *zap.Logger
	user   *domain.User
}

// New constructs an anonymous session over store.
func New(store persistence.KeyValueStore, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{store: store, logger: logger}
}

// Restore loads the persisted user, falling back to the legacy flat keys.
// Any failure leaves the session anonymous.
func (s *Session) Restore(ctx context.Context) {
	s.user = nil

	raw, ok, err := s.store.Get(ctx, KeyUserData)
	if err != nil {
		s.logger.Warn("session storage unavailable", zap.Error(err))
		return
	}
	if ok {
		var user domain.User
		if err := json.Unmarshal([]byte(raw), &user); err == nil && user.Email != "" {
			s.user = &user
			return
		} else if err != nil {
			s.logger.Warn("discarding unparseable session record", zap.Error(err))
		}
	}

	user, err := s.restoreLegacy(ctx)
	if err != nil {
		s.logger.Warn("legacy session restore failed", zap.Error(err))
		return
	}
	if user == nil {
		return
	}
	s.user = user
	s.persistUser(ctx)
}

func (s *Session) restoreLegacy(ctx context.Context) (*domain.User, error) {
	flag, _, err := s.store.Get(ctx, KeyIsLoggedIn)
	if err != nil {
		return nil, err
	}
	email, _, err := s.store.Get(ctx, KeyUserEmail)
	if err != nil {
		return nil, err
	}
	rawRole, _, err := s.store.Get(ctx, KeyUserRole)
	if err != nil {
		return nil, err
	}
	if flag != "true" || email == "" || rawRole == "" {
		return nil, nil
	}
	role, err := domain.ParseRole(rawRole)
	if err != nil {
		return nil, err
	}
	return domain.NewUser(email, role, nil)
}

// Login starts a session for the given identity. Credentials are verified
// by the caller.
func (s *Session) Login(ctx context.Context, email string, role domain.Role, profile domain.Profile) (*domain.User, error) {
	if email == "" {
		return nil, errors.New("email required")
	}
	user, err := domain.NewUser(email, role, profile)
	if err != nil {
		return nil, err
	}
	s.user = user
	s.persistUser(ctx)
	return user, nil
}

// Logout clears every persisted key and drops the user.
func (s *Session) Logout(ctx context.Context) {
	s.user = nil
	if err := s.store.Delete(ctx, allKeys...); err != nil {
		s.logger.Warn("failed to clear session storage", zap.Error(err))
	}
}

// UpdateProfile merges update into the current user. It is a no-op without
// a user; a profile belonging to another role is rejected.
func (s *Session) UpdateProfile(ctx context.Context, update ProfileUpdate) error {
	if s.user == nil {
		return nil
	}
	if update.Profile != nil && update.Profile.Role() != s.user.Role {
		return domain.ErrProfileMismatch
	}
	next := *s.user
	if update.Name != nil {
		next.Name = *update.Name
	}
	if update.Profile != nil {
		next.Profile = update.Profile
	}
	s.user = &next
	s.persistUser(ctx)
	return nil
}

func (s *Session) persistUser(ctx context.Context) {
	payload, err := json.Marshal(s.user)
	if err != nil {
		s.logger.Warn("failed to encode session user", zap.Error(err))
		return
	}
	pairs := [][2]string{
		{KeyUserData, string(payload)},
		{KeyIsLoggedIn, "true"},
		{KeyUserEmail, s.user.Email},
		{KeyUserRole, string(s.user.Role)},
	}
	for _, kv := range pairs {
		if err := s.store.Set(ctx, kv[0], kv[1]); err != nil {
			s.logger.Warn("failed to persist session", zap.String("key", kv[0]), zap.Error(err))
			return
		}
	}
}

// User returns a copy of the current user, or nil when anonymous.
func (s *Session) User() *domain.User {
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// IsLoggedIn reports whether a user is present.
func (s *Session) IsLoggedIn() bool {
	return s.user != nil
}

// HasRole reports whether the current user holds one of roles.
func (s *Session) HasRole(roles ...domain.Role) bool {
	if s.user == nil {
		return false
	}
	for _, role := range roles {
		if s.user.Role == role {
			return true
		}
	}
	return false
}

func (s *Session) HasPermission(perm domain.Permission) bool {
	return s.user != nil && rbac.HasPermission(s.user.Role, perm)
}

func (s *Session) HasAnyPermission(perms ...domain.Permission) bool {
	return s.user != nil && rbac.HasAnyPermission(s.user.Role, perms...)
}

func (s *Session) HasAllPermissions(perms ...domain.Permission) bool {
	return s.user != nil && rbac.HasAllPermissions(s.user.Role, perms...)
}
