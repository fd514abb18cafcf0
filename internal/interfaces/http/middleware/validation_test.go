package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

func TestSetupValidator(t *testing.T) {
	// Should not panic
	SetupValidator()

	v, ok := binding.Validator.Engine().(*validator.Validate)
	assert.True(t, ok)
	assert.NotNil(t, v)
}

func TestMaterialValidation(t *testing.T) {
	type intakeRequest struct {
		MaterialType string `json:"material_type" binding:"required,material"`
	}

	SetupValidator()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/test", func(c *gin.Context) {
		var req intakeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("POST", "/test", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("accepts known compounds", func(t *testing.T) {
		for _, m := range []string{"BUR", "NBR", "BT", "BOOM", "VT"} {
			w := post(`{"material_type": "` + m + `"}`)
			assert.Equal(t, http.StatusOK, w.Code, m)
		}
	})

	t.Run("rejects unknown compound", func(t *testing.T) {
		w := post(`{"material_type": "EPDM"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects missing material", func(t *testing.T) {
		w := post(`{}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
