package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sealshop/backend/internal/domain/shared"
	"github.com/sealshop/backend/internal/interfaces/http/dto"
	"github.com/sealshop/backend/internal/interfaces/http/middleware"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getTenantID extracts the tenant from the authenticated identity
func getTenantID(c *gin.Context) (uuid.UUID, error) {
	tenantID := middleware.GetTenantID(c)
	if tenantID == uuid.Nil {
		return uuid.Nil, errors.New("tenant not found in context")
	}
	return tenantID, nil
}

// parseID parses the :id path parameter
func parseID(c *gin.Context) (uuid.UUID, error) {
	return uuid.Parse(c.Param("id"))
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.ErrCodeBadRequest, message))
}

// Unauthorized sends a 401 unauthorized response
func (h *BaseHandler) Unauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.ErrCodeUnauthorized, message))
}

// HandleError converts domain errors to HTTP responses
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		status := dto.GetHTTPStatus(domainErr.Code)
		c.JSON(status, dto.NewErrorResponse(domainErr.Code, domainErr.Message))
		return
	}

	switch {
	case errors.Is(err, shared.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(dto.ErrCodeNotFound, "resource not found"))
	case errors.Is(err, shared.ErrAlreadyExists):
		c.JSON(http.StatusConflict, dto.NewErrorResponse("ALREADY_EXISTS", "resource already exists"))
	case errors.Is(err, shared.ErrInsufficientStock):
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("INSUFFICIENT_STOCK", "insufficient stock"))
	case errors.Is(err, shared.ErrConcurrencyConflict):
		c.JSON(http.StatusConflict, dto.NewErrorResponse("CONCURRENCY_CONFLICT", "concurrent modification, retry"))
	case errors.Is(err, shared.ErrInvalidState):
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("INVALID_STATE", err.Error()))
	case errors.Is(err, shared.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.ErrCodeUnauthorized, "unauthorized"))
	case errors.Is(err, shared.ErrTenantMismatch):
		c.JSON(http.StatusForbidden, dto.NewErrorResponse("TENANT_MISMATCH", "resource belongs to another tenant"))
	default:
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(dto.ErrCodeInternal, "an unexpected error occurred"))
	}
}
