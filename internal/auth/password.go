package auth

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned when a login password does not match.
var ErrInvalidCredentials = errors.New("invalid credentials")

// HashPassword hashes a plaintext password with configured cost.
func HashPassword(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword verifies a password against its hashed value.
func ComparePassword(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}

// DemoCredentials accepts any email with the shared demo password. The
// platform has no account store; the password only keeps casual visitors
// out of the demo.
type DemoCredentials struct {
	hash string
}

// NewDemoCredentials hashes the demo password once at startup.
func NewDemoCredentials(password string, cost int) (*DemoCredentials, error) {
	if password == "" {
		return nil, errors.New("demo password must not be empty")
	}
	hash, err := HashPassword(password, cost)
	if err != nil {
		return nil, err
	}
	return &DemoCredentials{hash: hash}, nil
}

// Verify checks the password for email.
func (d *DemoCredentials) Verify(email, password string) error {
	if strings.TrimSpace(email) == "" || password == "" {
		return ErrInvalidCredentials
	}
	if err := ComparePassword(d.hash, password); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}
