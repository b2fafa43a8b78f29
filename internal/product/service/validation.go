package service

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	producterrors "github.com/abgdnv/productcatalog/internal/product/errors"
	"github.com/go-playground/validator/v10"
)

const (
	tagRequired = "required"
	tagLetters  = "letters"
)

// lettersPattern accepts ASCII letters and the Hebrew letter block U+05D0..U+05EA
// (22 letters plus 5 final forms).
var lettersPattern = regexp.MustCompile(`^[A-Za-z\x{05D0}-\x{05EA}]+$`)

// Validator checks normalized create requests.
type Validator struct {
	validate *validator.Validate
}

// NewValidator returns a Validator with the letters rule registered.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)
	if err := v.RegisterValidation(tagLetters, isLetters); err != nil {
		// only possible with an empty tag or nil func
		panic(fmt.Sprintf("register %q validation: %v", tagLetters, err))
	}
	return &Validator{validate: v}
}

// Normalize coerces non-string fields to "" and trims surrounding whitespace.
func Normalize(input ProductInput) ProductCreateDto {
	return ProductCreateDto{
		Name:     coerce(input.Name),
		Category: coerce(input.Category),
	}
}

// Validate returns nil or a *errors.ValidationError. A missing field is reported
// ahead of invalid characters, whatever the field order.
func (v *Validator) Validate(dto ProductCreateDto) error {
	err := v.validate.Struct(dto)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("validating product: %w", err)
	}

	var invalid *producterrors.ValidationError
	for _, fieldErr := range validationErrors {
		if fieldErr.Tag() == tagRequired {
			return &producterrors.ValidationError{Field: fieldErr.Field(), Err: producterrors.ErrRequiredFields}
		}
		if invalid == nil {
			invalid = &producterrors.ValidationError{Field: fieldErr.Field(), Err: producterrors.ErrInvalidCharacters}
		}
	}
	if invalid == nil {
		return fmt.Errorf("validating product: %w", err)
	}
	return invalid
}

func coerce(value any) string {
	s, ok := value.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

func isLetters(fl validator.FieldLevel) bool {
	return lettersPattern.MatchString(fl.Field().String())
}

func jsonFieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	return name
}
