package middleware

import (
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/sealshop/backend/internal/domain/inventory"
)

// SetupValidator configures the request validator with custom tags.
func SetupValidator() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	// Use JSON tag names for field names in errors
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		return name
	})

	// material: one of the rubber compounds the shop stocks
	_ = v.RegisterValidation("material", func(fl validator.FieldLevel) bool {
		return inventory.MaterialType(fl.Field().String()).IsValid()
	})
}
