package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sealshop/backend/internal/infrastructure/auth"
	"github.com/sealshop/backend/internal/infrastructure/config"
	"github.com/sealshop/backend/internal/interfaces/http/middleware"
	"github.com/sealshop/backend/internal/interfaces/http/router"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:     "test-secret-key-32-characters-long",
		Expiration: 15 * time.Minute,
		Issuer:     "test-issuer",
	}
}

func setupAuthRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hash, err := auth.HashPassword("correct horse")
	require.NoError(t, err)

	authenticator, err := auth.NewStaticAuthenticator(config.AuthConfig{
		TenantID: "a2f1f8ce-6c34-4f0e-9b1a-3a9c2b6f4d10",
		Users: []config.UserConfig{
			{Username: "owner", PasswordHash: hash, Role: "owner"},
		},
	})
	require.NoError(t, err)

	jwtService := auth.NewJWTService(testJWTConfig())

	engine := gin.New()
	protected := gin.HandlerFunc(func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"tenant_id": middleware.GetTenantID(c).String()})
	})

	r := router.NewRouter(engine)
	r.Use(middleware.Auth(jwtService))
	r.RegisterPublic(NewAuthHandler(authenticator, jwtService))
	r.Register(routeFunc(func(rg *gin.RouterGroup) {
		rg.GET("/whoami", protected)
	}))
	r.Setup()
	return engine
}

// routeFunc adapts a function to router.RouteRegistrar for tests.
type routeFunc func(rg *gin.RouterGroup)

func (f routeFunc) RegisterRoutes(rg *gin.RouterGroup) { f(rg) }

func login(t *testing.T, engine *gin.Engine, username, password string) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(gin.H{"username": username, "password": password})
	require.NoError(t, err)
	req := httptest.NewRequest("POST", "/api/v1/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestLogin(t *testing.T) {
	engine := setupAuthRouter(t)

	t.Run("valid credentials return a token", func(t *testing.T) {
		w := login(t, engine, "owner", "correct horse")
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Success bool `json:"success"`
			Data    struct {
				Token    string `json:"token"`
				Username string `json:"username"`
				Role     string `json:"role"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.NotEmpty(t, resp.Data.Token)
		assert.Equal(t, "owner", resp.Data.Username)
		assert.Equal(t, "owner", resp.Data.Role)
	})

	t.Run("wrong password rejected", func(t *testing.T) {
		w := login(t, engine, "owner", "wrong")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unknown user rejected", func(t *testing.T) {
		w := login(t, engine, "ghost", "correct horse")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("missing fields rejected", func(t *testing.T) {
		w := login(t, engine, "owner", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestProtectedRoutes(t *testing.T) {
	engine := setupAuthRouter(t)

	t.Run("no token rejected", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/whoami", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/whoami", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("issued token carries the tenant", func(t *testing.T) {
		loginResp := login(t, engine, "owner", "correct horse")
		require.Equal(t, http.StatusOK, loginResp.Code)

		var resp struct {
			Data struct {
				Token string `json:"token"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(loginResp.Body.Bytes(), &resp))

		req := httptest.NewRequest("GET", "/api/v1/whoami", nil)
		req.Header.Set("Authorization", "Bearer "+resp.Data.Token)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		var whoami struct {
			TenantID string `json:"tenant_id"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &whoami))
		assert.Equal(t, "a2f1f8ce-6c34-4f0e-9b1a-3a9c2b6f4d10", whoami.TenantID)
	})
}
