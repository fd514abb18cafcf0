package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sealshop/backend/internal/domain/identity"
	"github.com/sealshop/backend/internal/domain/shared"
	"github.com/sealshop/backend/internal/infrastructure/config"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:     "test-secret-key-not-for-production",
		Expiration: time.Hour,
		Issuer:     "sealshop-test",
	}
}

func TestJWTService_IssueAndVerify(t *testing.T) {
	svc := NewJWTService(testJWTConfig())

	id := &identity.Identity{
		UserID:   uuid.New(),
		TenantID: uuid.New(),
		Username: "sawy",
		Role:     identity.RoleOwner,
	}

	token, err := svc.Issue(id)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, id.UserID, got.UserID)
	assert.Equal(t, id.TenantID, got.TenantID)
	assert.Equal(t, "sawy", got.Username)
	assert.Equal(t, identity.RoleOwner, got.Role)
}

func TestJWTService_Verify_WrongSecret(t *testing.T) {
	issuer := NewJWTService(testJWTConfig())
	verifier := NewJWTService(config.JWTConfig{
		Secret:     "a-different-secret",
		Expiration: time.Hour,
		Issuer:     "sealshop-test",
	})

	token, err := issuer.Issue(&identity.Identity{
		UserID:   uuid.New(),
		TenantID: uuid.New(),
		Username: "sawy",
		Role:     identity.RoleClerk,
	})
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_Verify_Expired(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{
		Secret:     "test-secret",
		Expiration: -time.Minute,
		Issuer:     "sealshop-test",
	})

	token, err := svc.Issue(&identity.Identity{
		UserID:   uuid.New(),
		TenantID: uuid.New(),
		Username: "sawy",
		Role:     identity.RoleClerk,
	})
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTService_Verify_Garbage(t *testing.T) {
	svc := NewJWTService(testJWTConfig())

	_, err := svc.Verify("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestStaticAuthenticator(t *testing.T) {
	hash, err := HashPassword("workshop123")
	require.NoError(t, err)

	tenantID := uuid.New()
	authn, err := NewStaticAuthenticator(config.AuthConfig{
		TenantID: tenantID.String(),
		Users: []config.UserConfig{
			{Username: "sawy", PasswordHash: hash, Role: "owner"},
		},
	})
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		id, err := authn.Authenticate(context.Background(), identity.Credentials{
			Username: "sawy",
			Password: "workshop123",
		})
		require.NoError(t, err)
		assert.Equal(t, tenantID, id.TenantID)
		assert.Equal(t, identity.RoleOwner, id.Role)
		assert.NotEqual(t, uuid.Nil, id.UserID)
	})

	t.Run("user id stable across instances", func(t *testing.T) {
		again, err := NewStaticAuthenticator(config.AuthConfig{
			TenantID: tenantID.String(),
			Users: []config.UserConfig{
				{Username: "sawy", PasswordHash: hash, Role: "owner"},
			},
		})
		require.NoError(t, err)

		first, err := authn.Authenticate(context.Background(), identity.Credentials{Username: "sawy", Password: "workshop123"})
		require.NoError(t, err)
		second, err := again.Authenticate(context.Background(), identity.Credentials{Username: "sawy", Password: "workshop123"})
		require.NoError(t, err)
		assert.Equal(t, first.UserID, second.UserID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := authn.Authenticate(context.Background(), identity.Credentials{
			Username: "sawy",
			Password: "nope",
		})
		assert.ErrorIs(t, err, shared.ErrUnauthorized)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := authn.Authenticate(context.Background(), identity.Credentials{
			Username: "ghost",
			Password: "workshop123",
		})
		assert.ErrorIs(t, err, shared.ErrUnauthorized)
	})

	t.Run("bad tenant id rejected", func(t *testing.T) {
		_, err := NewStaticAuthenticator(config.AuthConfig{TenantID: "not-a-uuid"})
		assert.Error(t, err)
	})
}
