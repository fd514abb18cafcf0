package identity

import (
	"context"

	"github.com/google/uuid"
)

// Role is the coarse permission level attached to an identity.
type Role string

const (
	RoleOwner      Role = "owner"
	RoleSupervisor Role = "supervisor"
	RoleClerk      Role = "clerk"
)

// Identity is an authenticated principal scoped to one tenant.
type Identity struct {
	UserID   uuid.UUID
	TenantID uuid.UUID
	Username string
	Role     Role
}

// Credentials is what a login attempt presents.
type Credentials struct {
	Username string
	Password string
}

// Authenticator verifies credentials. Implementations are injected; the
// domain never holds a credential table of its own.
type Authenticator interface {
	Authenticate(ctx context.Context, creds Credentials) (*Identity, error)
}

// TokenIssuer mints and verifies session tokens for identities.
type TokenIssuer interface {
	Issue(identity *Identity) (string, error)
	Verify(token string) (*Identity, error)
}
