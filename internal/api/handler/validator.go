package handler

import (
	"github.com/go-playground/validator/v10"

	"github.com/barangay-connect/resident-services/internal/core/service"
)

// echoValidator wraps go-playground/validator so Echo can call c.Validate(req).
type echoValidator struct {
	v *validator.Validate
}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
// Field names in errors are the JSON names, and the ph_mobile tag is available.
func NewValidator() *echoValidator {
	return &echoValidator{v: service.NewValidate()}
}

// Validate satisfies the echo.Validator interface. The first failing field is
// returned as a *domain.ValidationError.
func (ev *echoValidator) Validate(i any) error {
	if err := ev.v.Struct(i); err != nil {
		return service.ToValidationError(err)
	}
	return nil
}
