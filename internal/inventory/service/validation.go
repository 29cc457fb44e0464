package service

import (
	"github.com/go-playground/validator/v10"
	"github.com/obatqu/obatqu-backend/internal/inventory/analysis"
	"github.com/obatqu/obatqu-backend/pkg/httputil"
)

func init() {
	// The expiry tag accepts anything the expiry evaluator can turn into
	// a date. Empty values are handled by omitempty on the field.
	_ = httputil.RegisterCustomValidation("expiry", func(fl validator.FieldLevel) bool {
		_, ok := analysis.ParseExpiry(fl.Field().String())
		return ok
	})
}
