package auth

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/sealshop/backend/internal/domain/identity"
	"github.com/sealshop/backend/internal/domain/shared"
	"github.com/sealshop/backend/internal/infrastructure/config"
)

type staticUser struct {
	userID       uuid.UUID
	passwordHash string
	role         identity.Role
}

// StaticAuthenticator verifies credentials against the operator accounts
// declared in configuration. It implements identity.Authenticator.
type StaticAuthenticator struct {
	tenantID uuid.UUID
	users    map[string]staticUser
}

// NewStaticAuthenticator builds an authenticator from config. User IDs
// are derived deterministically from the tenant and username so tokens
// stay valid across restarts.
func NewStaticAuthenticator(cfg config.AuthConfig) (*StaticAuthenticator, error) {
	tenantID, err := uuid.Parse(cfg.TenantID)
	if err != nil {
		return nil, fmt.Errorf("parse tenant id: %w", err)
	}

	users := make(map[string]staticUser, len(cfg.Users))
	for _, u := range cfg.Users {
		if u.Username == "" || u.PasswordHash == "" {
			return nil, fmt.Errorf("user %q: username and password hash are required", u.Username)
		}
		users[u.Username] = staticUser{
			userID:       uuid.NewSHA1(tenantID, []byte(u.Username)),
			passwordHash: u.PasswordHash,
			role:         identity.Role(u.Role),
		}
	}

	return &StaticAuthenticator{tenantID: tenantID, users: users}, nil
}

func (a *StaticAuthenticator) Authenticate(_ context.Context, creds identity.Credentials) (*identity.Identity, error) {
	user, ok := a.users[creds.Username]
	if !ok {
		// run the comparison anyway to keep timing uniform
		_ = bcrypt.CompareHashAndPassword([]byte("$2a$12$invalidinvalidinvalidinvalidinvalidinvalidinvalidinva"), []byte(creds.Password))
		return nil, shared.ErrUnauthorized
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.passwordHash), []byte(creds.Password)); err != nil {
		return nil, shared.ErrUnauthorized
	}

	return &identity.Identity{
		UserID:   user.userID,
		TenantID: a.tenantID,
		Username: creds.Username,
		Role:     user.role,
	}, nil
}

// HashPassword generates a bcrypt hash for seeding config files.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
