package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sealshop/backend/internal/domain/identity"
	"github.com/sealshop/backend/internal/interfaces/http/dto"
)

// Context keys
const (
	IdentityKey   = "auth_identity"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// Auth verifies the bearer token and stores the identity on the context.
// Requests without a valid token are rejected with 401.
func Auth(issuer identity.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(AuthHeaderKey)
		if header == "" {
			abortUnauthorized(c, "missing authorization header")
			return
		}
		if !strings.HasPrefix(header, BearerPrefix) {
			abortUnauthorized(c, "invalid authorization header format")
			return
		}

		id, err := issuer.Verify(strings.TrimPrefix(header, BearerPrefix))
		if err != nil {
			abortUnauthorized(c, "invalid or expired token")
			return
		}

		c.Set(IdentityKey, id)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.ErrCodeUnauthorized, message))
}

// GetIdentity returns the authenticated identity, or nil outside Auth.
func GetIdentity(c *gin.Context) *identity.Identity {
	v, ok := c.Get(IdentityKey)
	if !ok {
		return nil
	}
	id, ok := v.(*identity.Identity)
	if !ok {
		return nil
	}
	return id
}

// GetTenantID returns the authenticated tenant, or uuid.Nil outside Auth.
func GetTenantID(c *gin.Context) uuid.UUID {
	if id := GetIdentity(c); id != nil {
		return id.TenantID
	}
	return uuid.Nil
}
