package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid configuration")

var validate = newValidator()

// newValidator reports fields by their koanf path, so messages name the
// key an operator would set.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("koanf"), ",")
		if name == "" {
			return f.Name
		}

		return name
	})

	return v
}

// Validate checks c and lists every problem at once. The service refuses to
// start on error.
func (c *Config) Validate() error {
	err := validate.Struct(c)

	var fields validator.ValidationErrors
	if !errors.As(err, &fields) {
		return err
	}

	problems := make([]string, len(fields))
	for i, fe := range fields {
		problems[i] = problem(fe)
	}

	return fmt.Errorf("%w:\n  %s", ErrInvalid, strings.Join(problems, "\n  "))
}

func problem(fe validator.FieldError) string {
	key := keyPath(fe.Namespace())

	switch fe.Tag() {
	case "required":
		return key + " is required"
	case "required_if":
		return fmt.Sprintf("%s is required when %s", key, condition(fe.Param()))
	case "required_unless":
		return fmt.Sprintf("%s is required unless %s", key, condition(fe.Param()))
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", key, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", key, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", key, fe.Param())
	case "gtefield":
		return fmt.Sprintf("%s must not be below %s", key, fe.Param())
	case "url":
		return key + " must be a URL"
	default:
		return fmt.Sprintf("%s is invalid (%s)", key, fe.Tag())
	}
}

// keyPath drops the root type name: "Config.server.port" becomes "server.port".
func keyPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}

	return namespace
}

// condition renders a "Field value" parameter as "Field=value".
func condition(param string) string {
	field, value, _ := strings.Cut(param, " ")
	return field + "=" + value
}
