package validator

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"memo-notes/pkg/dataurl"

	"github.com/go-playground/validator/v10"
)

// Validator wraps the go-playground validator
type Validator struct {
	validate *validator.Validate
}

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Tag     string `json:"tag"`
	Value   string `json:"value,omitempty"`
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface
func (v ValidationErrors) Error() string {
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Message)
	}
	return strings.Join(messages, "; ")
}

// maxEchoedValue bounds the offending value copied into an error;
// image data URLs can be megabytes long
const maxEchoedValue = 64

var idPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// New creates a new validator instance
func New() *Validator {
	v := validator.New()

	// Register custom tag name function to use JSON tags
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Register custom validators
	v.RegisterValidation("foldername", validateFolderName)
	v.RegisterValidation("memoid", validateID)
	v.RegisterValidation("imagedataurl", validateImageDataURL)

	return &Validator{validate: v}
}

// Validate validates a struct and returns validation errors
func (v *Validator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	// Convert validation errors to our custom format
	var validationErrs ValidationErrors
	for _, fe := range fieldErrs {
		value := truncate(fmt.Sprintf("%v", fe.Value()), maxEchoedValue)
		validationErrs = append(validationErrs, ValidationError{
			Field:   fe.Field(),
			Message: msgForTag(fe),
			Tag:     fe.Tag(),
			Value:   value,
		})
	}

	return validationErrs
}

// truncate shortens s to at most n bytes without splitting a rune
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

// msgForTag returns a human-readable error message for a validation tag
func msgForTag(fe validator.FieldError) string {
	field := fe.Field()

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "foldername":
		return fmt.Sprintf("%s must not be blank or contain control characters", field)
	case "memoid":
		return fmt.Sprintf("%s must be 1-64 letters, digits, '-' or '_'", field)
	case "imagedataurl":
		return fmt.Sprintf("%s must be a base64 image data URL", field)
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}

// Custom validators

// validateFolderName rejects blank names and control characters
func validateFolderName(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	if strings.TrimSpace(name) == "" {
		return false
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return false
		}
	}
	return true
}

// validateID accepts uuids as well as the numeric ids of older data
func validateID(fl validator.FieldLevel) bool {
	return idPattern.MatchString(fl.Field().String())
}

func validateImageDataURL(fl validator.FieldLevel) bool {
	return dataurl.IsImage(fl.Field().String())
}
