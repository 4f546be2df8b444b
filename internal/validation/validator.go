package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	etlerrors "github.com/alexisbeaulieu97/etlrun/pkg/errors"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	identifierPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)
)

// Instance returns the shared validator used by the runtime packages.
func Instance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		_ = v.RegisterValidation("identifier", func(fl validator.FieldLevel) bool {
			return identifierPattern.MatchString(fl.Field().String())
		})

		validateInst = v
	})

	return validateInst
}

// Struct validates s against its `validate` tags and converts the first
// failure into a ValidationError. prefix is prepended to the field path.
func Struct(prefix string, s any) error {
	if err := Instance().Struct(s); err != nil {
		return convert(prefix, err)
	}
	return nil
}

// FieldErrors lists the lower-cased field names that failed validation in err.
func FieldErrors(err error) []string {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return nil
	}
	fields := make([]string, 0, len(ves))
	for _, fe := range ves {
		fields = append(fields, strings.ToLower(fe.Field()))
	}
	return fields
}

func convert(prefix string, err error) error {
	var ves validator.ValidationErrors
	if errors.As(err, &ves) && len(ves) > 0 {
		fe := ves[0]
		field := fieldName(prefix, fe)
		msg := fmt.Sprintf("%s failed validation for tag '%s'", field, fe.Tag())
		return etlerrors.NewValidationError(field, msg, err)
	}

	if prefix == "" {
		prefix = "value"
	}
	return etlerrors.NewValidationError(prefix, err.Error(), err)
}

func fieldName(prefix string, fe validator.FieldError) string {
	parts := strings.Split(fe.StructNamespace(), ".")
	// Drop the struct type name.
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, part := range parts {
		parts[i] = strings.ToLower(part)
	}
	name := strings.Join(parts, ".")
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}
