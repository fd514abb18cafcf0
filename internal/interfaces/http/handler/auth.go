package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/sealshop/backend/internal/domain/identity"
)

// AuthHandler handles login
type AuthHandler struct {
	BaseHandler
	authenticator identity.Authenticator
	tokens        identity.TokenIssuer
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authenticator identity.Authenticator, tokens identity.TokenIssuer) *AuthHandler {
	return &AuthHandler{authenticator: authenticator, tokens: tokens}
}

// LoginRequest is the login request body
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the session token
type LoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Login verifies credentials and mints a session token
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	id, err := h.authenticator.Authenticate(c.Request.Context(), identity.Credentials{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		h.Unauthorized(c, "invalid credentials")
		return
	}

	token, err := h.tokens.Issue(id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, LoginResponse{
		Token:    token,
		Username: id.Username,
		Role:     string(id.Role),
	})
}

// RegisterRoutes registers auth routes
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/login", h.Login)
}
