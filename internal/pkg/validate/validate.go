// Package validate wraps go-playground/validator for request binding and for
// checking identity records received from the auth service.
package validate

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// EchoValidator lets Echo call c.Validate(req).
type EchoValidator struct {
	v *validator.Validate
}

// New returns an EchoValidator ready to be assigned to echo.Echo.Validator.
func New() *EchoValidator {
	return &EchoValidator{v: validator.New()}
}

// Validate satisfies the echo.Validator interface.
func (ev *EchoValidator) Validate(i any) error {
	return humanize(ev.v.Struct(i))
}

var (
	defaultOnce sync.Once
	defaultV    *validator.Validate
)

// Struct validates i with a shared validator instance.
func Struct(i any) error {
	defaultOnce.Do(func() { defaultV = validator.New() })
	return humanize(defaultV.Struct(i))
}

func humanize(err error) error {
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		msgs := make([]string, 0, len(ve))
		for _, fe := range ve {
			msgs = append(msgs, fieldError(fe))
		}
		return fmt.Errorf("%s", strings.Join(msgs, "; "))
	}
	return err
}

// fieldError converts a single FieldError into a human-readable message.
func fieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters", field, fe.Param())
	case "numeric":
		return field + " must contain digits only"
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
