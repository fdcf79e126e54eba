package dto

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// ErrBinding means the body or query string could not be decoded at all.
var ErrBinding = errors.New("malformed request")

var validate = newValidator()

// newValidator reports fields by their json name and knows the notempty tag,
// which rejects whitespace-only strings.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	if err := v.RegisterValidation("notempty", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	}); err != nil {
		panic(err)
	}

	return v
}

// Validate checks the struct tags of v.
func Validate(v any) error {
	return validate.Struct(v)
}

// BindAndValidate decodes the JSON body into v and validates it.
func BindAndValidate(c *gin.Context, v any) error {
	if err := c.ShouldBindJSON(v); err != nil {
		return fmt.Errorf("%w: %w", ErrBinding, err)
	}

	return Validate(v)
}

// BindQueryAndValidate decodes the query string into v and validates it.
func BindQueryAndValidate(c *gin.Context, v any) error {
	if err := c.ShouldBindQuery(v); err != nil {
		return fmt.Errorf("%w: %w", ErrBinding, err)
	}

	return Validate(v)
}

// FieldErrors returns a message per failing field, keyed by the field's
// json name ("expertise[1]" for a slice element). It returns nil when err
// is not a validation failure.
func FieldErrors(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = describe(fe)
	}

	return out
}

func describe(fe validator.FieldError) string {
	p := fe.Param()

	switch fe.Tag() {
	case "required":
		return "is required"
	case "notempty":
		return "must not be blank"
	case "email":
		return "must be an email address"
	case "url":
		return "must be a URL"
	case "oneof":
		return "must be one of " + strings.ReplaceAll(p, " ", ", ")
	case "gte":
		return "must be at least " + p
	case "lte":
		return "must be at most " + p
	case "min", "max":
		bound := map[string]string{"min": "at least", "max": "at most"}[fe.Tag()]
		switch fe.Kind() {
		case reflect.String:
			return fmt.Sprintf("must be %s %s characters", bound, p)
		case reflect.Slice, reflect.Map:
			return fmt.Sprintf("must have %s %s entries", bound, p)
		}

		return fmt.Sprintf("must be %s %s", bound, p)
	}

	return "is invalid (" + fe.Tag() + ")"
}
