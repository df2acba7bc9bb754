package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their on-screen label where one exists.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("label")
	})
	return v
}

// InvalidError lists every field of a record that failed validation.
type InvalidError struct {
	Problems []string
}

func (e *InvalidError) Error() string {
	return strings.Join(e.Problems, "; ")
}

// Validate checks a record's struct tags. Failures are returned as an
// *InvalidError with one readable problem per field.
func Validate(record any) error {
	err := validate.Struct(record)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("failed to validate record: %w", err)
	}
	problems := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		problems = append(problems, describe(fe))
	}
	return &InvalidError{Problems: problems}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s不能为空", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s必须是以下之一: %s", fe.Field(), fe.Param())
	case "datetime":
		return fmt.Sprintf("%s的日期格式应为 YYYY-MM-DD", fe.Field())
	case "gt":
		return fmt.Sprintf("%s必须大于 %s", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("%s不能小于 %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s校验失败 (%s)", fe.Field(), fe.Tag())
	}
}
