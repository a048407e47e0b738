// Package validator wraps go-playground/validator with the project rules and turns
// every rejection into a 400 failure naming the first offending field by its JSON name.
package validator

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"reflect"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"cowork/shared/constant"
	"cowork/shared/failure"
	"cowork/shared/timezone"

	val "github.com/go-playground/validator/v10"
)

const megabyte = 1 << 20

var (
	datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	validate    = newValidate()
)

func newValidate() *val.Validate {
	v := val.New(val.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonName)

	rules := map[string]val.Func{
		"empty":       func(fl val.FieldLevel) bool { return fl.Field().IsZero() },
		"notblank":    notBlank,
		"date":        isDate,
		"mimetypes":   hasMimeType,
		"maxfilesize": withinSize,
	}

	for tag, rule := range rules {
		if err := v.RegisterValidation(tag, rule); err != nil {
			panic(fmt.Sprintf("register %s: %v", tag, err))
		}
	}

	return v
}

// jsonName reports fields by their wire name so messages match the request body.
func jsonName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")

	switch name {
	case "-":
		return constant.Empty
	case constant.Empty:
		return field.Name
	default:
		return name
	}
}

func notBlank(fl val.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != constant.Empty
}

// isDate accepts calendar dates written as YYYY-MM-DD that actually exist.
func isDate(fl val.FieldLevel) bool {
	value := fl.Field().String()
	if !datePattern.MatchString(value) {
		return false
	}

	_, err := timezone.ParseDate(value)

	return err == nil
}

func fileHeader(fl val.FieldLevel) (multipart.FileHeader, bool) {
	header, ok := fl.Field().Interface().(multipart.FileHeader)

	return header, ok
}

// hasMimeType checks the declared Content-Type against a space separated list.
func hasMimeType(fl val.FieldLevel) bool {
	header, ok := fileHeader(fl)
	if !ok {
		return false
	}

	return slices.Contains(strings.Fields(fl.Param()), header.Header.Get(constant.RequestHeaderContentType))
}

// withinSize limits uploads, or string lengths, to the parameter in megabytes.
func withinSize(fl val.FieldLevel) bool {
	limit, err := strconv.ParseFloat(fl.Param(), 64)
	if err != nil {
		return false
	}

	var size int64

	if header, ok := fileHeader(fl); ok {
		size = header.Size
	} else if fl.Field().Kind() == reflect.String {
		size = int64(fl.Field().Len())
	}

	return float64(size) <= limit*megabyte
}

// Validate decodes a JSON body into data and validates it.
func Validate[T any](r io.Reader, data *T) error {
	if err := json.NewDecoder(r).Decode(data); err != nil {
		return failure.BadRequest(fmt.Errorf("failed to decode request body: %w", err)) //nolint:wrapcheck
	}

	return ValidateStruct(data)
}

func ValidateStruct[T any](data *T) error {
	return rejection(validate.Struct(data))
}

// ValidateVar checks a single value against tag, as used for interactive input.
func ValidateVar(field any, tag string) error {
	return rejection(validate.Var(field, tag))
}

func rejection(err error) error {
	if err == nil {
		return nil
	}

	return failure.BadRequestFromString(message(err)) //nolint:wrapcheck
}
