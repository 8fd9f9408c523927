package catalog

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

// slugPattern matches lowercase kebab-case identifiers ("running-shoes").
var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// NewValidator returns a validator with catalog-specific rules registered.
func NewValidator() (*validator.Validate, error) {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("slug", validateSlug); err != nil {
		return nil, fmt.Errorf("register slug validator: %w", err)
	}
	return v, nil
}

// validateSlug validates the slug field format.
func validateSlug(fl validator.FieldLevel) bool {
	return slugPattern.MatchString(fl.Field().String())
}

// ValidatePayload runs struct-tag validation on a create/update payload
// before it is sent to the backend. It catches obvious mistakes locally so
// the user gets an immediate message instead of a backend round trip.
func ValidatePayload(v *validator.Validate, payload any) error {
	err := v.Struct(payload)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Errorf("invalid %s: failed %q rule", fe.Field(), fe.Tag())
	}
	return err
}
