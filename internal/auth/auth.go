// Package auth holds the logged-in identity and its local persistence.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/examdesk/examdesk/internal/store"
)

// Role is a user role as issued by the server.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleTeacher Role = "TEACHER"
	RoleStudent Role = "STUDENT"
)

// ParseRole normalizes s. Unknown values are returned upper-cased and
// unchanged; callers decide the fallback.
func ParseRole(s string) Role {
	return Role(strings.ToUpper(strings.TrimSpace(s)))
}

// Display returns the role in title case for the UI.
func (r Role) Display() string {
	switch r {
	case RoleAdmin:
		return "Admin"
	case RoleTeacher:
		return "Teacher"
	case RoleStudent:
		return "Student"
	}
	return strings.ToLower(string(r))
}

// Known reports whether r is one of the three server roles.
func (r Role) Known() bool {
	switch r {
	case RoleAdmin, RoleTeacher, RoleStudent:
		return true
	}
	return false
}

// User is the account returned at login.
type User struct {
	ID       int64  `json:"userId"`
	FullName string `json:"fullName"`
	Email    string `json:"email" validate:"omitempty,email"`
	Role     Role   `json:"role"`
}

// ErrNotLoggedIn is returned when no usable credentials are saved.
var ErrNotLoggedIn = errors.New("not logged in")

// Credentials is a bearer token plus the user it belongs to.
type Credentials struct {
	Token     string
	User      User
	ExpiresAt time.Time // zero when unknown
}

// NewCredentials builds credentials for token. When the token is a JWT,
// its exp claim sets ExpiresAt and its role claim fills a missing role.
// The signature is not checked; the server remains the authority.
func NewCredentials(token string, user User) Credentials {
	c := Credentials{Token: token, User: user}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return c
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}
	if c.User.Role == "" {
		if role, ok := claims["role"].(string); ok {
			c.User.Role = ParseRole(role)
		}
	}
	return c
}

// Expired reports whether the token is known to have expired at now.
func (c Credentials) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

// Valid reports whether c holds a token that has not expired.
func (c Credentials) Valid(now time.Time) bool {
	return c.Token != "" && !c.Expired(now)
}

// Holder is the process-wide current login. The REST client reads its
// token on every request.
type Holder struct {
	mu    sync.RWMutex
	creds *Credentials
}

// Token returns the current bearer token, or "" when logged out.
func (h *Holder) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.creds == nil {
		return ""
	}
	return h.creds.Token
}

// Current returns a copy of the current credentials.
func (h *Holder) Current() (Credentials, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.creds == nil {
		return Credentials{}, false
	}
	return *h.creds, true
}

func (h *Holder) Set(c Credentials) {
	h.mu.Lock()
	h.creds = &c
	h.mu.Unlock()
}

func (h *Holder) Clear() {
	h.mu.Lock()
	h.creds = nil
	h.mu.Unlock()
}

// Keyring saves and restores credentials through the local store.
type Keyring struct {
	repo store.CredentialRepo
	now  func() time.Time
}

func NewKeyring(repo store.CredentialRepo) *Keyring {
	return &Keyring{repo: repo, now: time.Now}
}

func (k *Keyring) Save(ctx context.Context, c Credentials) error {
	err := k.repo.SaveCredentials(ctx, store.CredentialRecord{
		Token:     c.Token,
		UserID:    c.User.ID,
		FullName:  c.User.FullName,
		Email:     c.User.Email,
		Role:      string(c.User.Role),
		ExpiresAt: c.ExpiresAt,
		SavedAt:   k.now(),
	})
	if err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}
	return nil
}

// Load returns the saved credentials. It returns ErrNotLoggedIn when none
// are saved or the saved token has expired.
func (k *Keyring) Load(ctx context.Context) (Credentials, error) {
	rec, err := k.repo.LoadCredentials(ctx)
	if err != nil {
		return Credentials{}, fmt.Errorf("load credentials: %w", err)
	}
	if rec == nil {
		return Credentials{}, ErrNotLoggedIn
	}
	c := Credentials{
		Token: rec.Token,
		User: User{
			ID:       rec.UserID,
			FullName: rec.FullName,
			Email:    rec.Email,
			Role:     ParseRole(rec.Role),
		},
		ExpiresAt: rec.ExpiresAt,
	}
	if !c.Valid(k.now()) {
		return Credentials{}, ErrNotLoggedIn
	}
	return c, nil
}

// Clear forgets the saved login.
func (k *Keyring) Clear(ctx context.Context) error {
	if err := k.repo.ClearCredentials(ctx); err != nil {
		return fmt.Errorf("clear credentials: %w", err)
	}
	return nil
}
