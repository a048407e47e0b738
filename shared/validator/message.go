package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	val "github.com/go-playground/validator/v10"
)

// message turns the first failed rule into a sentence a client can show as is.
func message(err error) string {
	var fields val.ValidationErrors
	if !errors.As(err, &fields) || len(fields) == 0 {
		return err.Error()
	}

	return describe(fields[0])
}

func describe(fe val.FieldError) string {
	field, param := fe.Field(), fe.Param()

	switch fe.Tag() {
	case "required", "notblank":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "uuid", "uuid4":
		return field + " must be a valid uuid"
	case "date":
		return field + " must be a valid date (YYYY-MM-DD)"
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", field, param)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, param)
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, param)
	case "lt":
		return fmt.Sprintf("%s must be less than %s", field, param)
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, param)
	case "min", "max":
		return bound(fe)
	case "mimetypes":
		return fmt.Sprintf("%s must be one of these file types: %s", field, strings.ReplaceAll(param, " ", ", "))
	case "maxfilesize":
		return fmt.Sprintf("%s must not be larger than %s MB", field, param)
	case "e164", "numeric":
		return field + " must be a valid phone number"
	}

	return fmt.Sprintf("%s failed the %s rule", field, fe.Tag())
}

// bound words min and max by what they measure: characters for text, items for
// collections, value for numbers.
func bound(fe val.FieldError) string {
	limit := "at least"
	if fe.Tag() == "max" {
		limit = "at most"
	}

	switch fe.Kind() {
	case reflect.String:
		return fmt.Sprintf("%s must be %s %s characters long", fe.Field(), limit, fe.Param())
	case reflect.Slice, reflect.Map, reflect.Array:
		return fmt.Sprintf("%s must contain %s %s items", fe.Field(), limit, fe.Param())
	default:
		return fmt.Sprintf("%s must be %s %s", fe.Field(), limit, fe.Param())
	}
}
