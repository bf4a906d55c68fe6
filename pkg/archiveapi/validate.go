package archiveapi

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/grovetools/archive/composer"
	"github.com/grovetools/archive/errors"
)

// newValidator returns a validator whose "category" rule accepts only
// identifiers from catalog.
func newValidator(catalog *composer.Catalog) *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		if catalog == nil {
			return value != "" && value == strings.ToLower(value)
		}
		_, ok := catalog.Lookup(value)
		return ok
	})
	return v
}

// validateRequest runs struct validation and converts failures into an
// INVALID_INPUT error naming the first offending field.
func (c *HTTPClient) validateRequest(req interface{}) error {
	err := c.validate.Struct(req)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return errors.InvalidInput("invalid request", err)
	}

	fe := verrs[0]
	reason := fmt.Sprintf("%s failed '%s' validation", fe.Namespace(), fe.Tag())
	switch fe.Tag() {
	case "required":
		reason = fmt.Sprintf("%s is required", fe.Field())
	case "category":
		reason = fmt.Sprintf("unknown field '%v'", fe.Value())
	case "url":
		reason = fmt.Sprintf("%s must be a valid URL", fe.Field())
	case "file":
		reason = fmt.Sprintf("file '%v' does not exist", fe.Value())
	case "max":
		reason = fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	}
	return errors.InvalidInput(reason, err).WithDetail("field", fe.Field())
}
