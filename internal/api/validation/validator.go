package validation

import (
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/relentron/website/internal/models"
)

// Form field keys, shared by the JSON payload and the field error map
const (
	FieldName      = "name"
	FieldEmail     = "email"
	FieldPhone     = "phone"
	FieldService   = "service"
	FieldMessage   = "message"
	FieldRecaptcha = "recaptcha"
)

const (
	MinNameLength    = 2
	MaxNameLength    = 100
	MaxEmailLength   = 254
	MaxMessageLength = 5000
	PhoneLength      = 10
)

var (
	emailRegex  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	nameRegex   = regexp.MustCompile(`^[a-zA-Z\s]*$`)
	phoneRegex  = regexp.MustCompile(`^[0-9]{10}$`)
	digitsRegex = regexp.MustCompile(`^[0-9]*$`)
)

// RegisterValidators registers custom validators
func RegisterValidators(v *validator.Validate) error {
	rules := map[string]validator.Func{
		"notblank":   validateNotBlank,
		"personname": validatePersonName,
		"basicemail": validateEmail,
		"phone10":    validatePhone,
		"service":    validateService,
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

// validateNotBlank checks the field is non-empty after trimming
func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func validatePersonName(fl validator.FieldLevel) bool {
	return nameRegex.MatchString(fl.Field().String())
}

func validateEmail(fl validator.FieldLevel) bool {
	return emailRegex.MatchString(fl.Field().String())
}

func validatePhone(fl validator.FieldLevel) bool {
	return phoneRegex.MatchString(fl.Field().String())
}

func validateService(fl validator.FieldLevel) bool {
	return models.Service(fl.Field().String()).Valid()
}

var (
	instance *validator.Validate
	once     sync.Once
)

// Default returns the shared validator with the enquiry rules registered
func Default() *validator.Validate {
	once.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		if err := RegisterValidators(v); err != nil {
			panic("failed to register validators: " + err.Error())
		}
		instance = v
	})
	return instance
}

// ValidationError represents a validation error
type ValidationError struct {
	Field string `json:"field"`
	Tag   string `json:"tag"`
	Value string `json:"value"`
}

// FormatValidationError formats validation errors into a user-friendly response
func FormatValidationError(err error) []ValidationError {
	var errors []ValidationError
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrors {
			errors = append(errors, ValidationError{
				Field: e.Field(),
				Tag:   e.Tag(),
				Value: e.Param(),
			})
		}
	}
	return errors
}
