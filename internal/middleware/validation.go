package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/bxiit/selmag/internal/i18n"

	"github.com/go-playground/validator/v10"
)

// ErrMalformedBody is returned by DecodeAndValidate when the body is not valid JSON
var ErrMalformedBody = errors.New("malformed request body")

// Validator instance
var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON names so message keys match the wire format
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	if err := validate.RegisterValidation("trimmedmin", trimmedLength(func(n, bound int) bool { return n >= bound })); err != nil {
		panic(fmt.Sprintf("failed to register trimmedmin validation: %v", err))
	}
	if err := validate.RegisterValidation("trimmedmax", trimmedLength(func(n, bound int) bool { return n <= bound })); err != nil {
		panic(fmt.Sprintf("failed to register trimmedmax validation: %v", err))
	}
}

// trimmedLength compares the character count of a string, after trimming
// surrounding whitespace, against the tag parameter
func trimmedLength(compare func(n, bound int) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		bound, err := strconv.Atoi(fl.Param())
		if err != nil {
			panic(fmt.Sprintf("%s: invalid parameter %q", fl.GetTag(), fl.Param()))
		}
		return compare(utf8.RuneCountInString(strings.TrimSpace(fl.Field().String())), bound)
	}
}

// ValidateRequest validates a struct against its validation tags
func ValidateRequest(v interface{}) error {
	return validate.Struct(v)
}

// DecodeAndValidate decodes JSON request body and validates it
func DecodeAndValidate(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: unexpected data after JSON value", ErrMalformedBody)
	}
	return ValidateRequest(v)
}

// MessageKeys maps "<json field>.<validation tag>" to an i18n message key
type MessageKeys map[string]string

// FormatValidationErrors converts validator errors into localized messages,
// one per violated field, in field declaration order
func FormatValidationErrors(err error, localizer *i18n.Localizer, keys MessageKeys) []string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		key, ok := keys[e.Field()+"."+e.Tag()]
		if !ok {
			messages = append(messages, fmt.Sprintf("%s: %s", e.Field(), e.Tag()))
			continue
		}
		messages = append(messages, localizer.Message(key))
	}

	return messages
}
