package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"unicode"

	"farmconnect-backend/internal/pkg/constants"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Matches /^[^\s@]+@[^\s@]+\.[^\s@]+$/.
var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Letters, spaces, hyphens, apostrophes and dots.
var fullnameRe = regexp.MustCompile(`^[\p{L}\s\-'.]+$`)

func IsValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

// IsValidPassword requires at least 8 characters with a letter and a digit.
func IsValidPassword(password string) bool {
	if len(password) < 8 {
		return false
	}
	hasLetter, hasDigit := false, false
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}

func IsValidFullname(fullname string) bool {
	return strings.TrimSpace(fullname) != "" && fullnameRe.MatchString(fullname)
}

var (
	once     sync.Once
	validate *validator.Validate
)

// Validator returns the shared validator with the custom tags registered:
// "role" (farmer|landowner|buyer), "password" and "fullname".
func Validator() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		// Decimals validate as their float value so gt/gte/lte apply.
		v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
			if d, ok := field.Interface().(decimal.Decimal); ok {
				f, _ := d.Float64()
				return f
			}
			return nil
		}, decimal.Decimal{})
		_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
			return constants.IsValidRole(fl.Field().String())
		})
		_ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
			return IsValidPassword(fl.Field().String())
		})
		_ = v.RegisterValidation("fullname", func(fl validator.FieldLevel) bool {
			return IsValidFullname(fl.Field().String())
		})
		validate = v
	})
	return validate
}

// Struct validates s by its `validate` tags.
func Struct(s interface{}) error {
	return Validator().Struct(s)
}

// FieldErrors turns a validation error into a field -> message map suitable
// for the error envelope details.
func FieldErrors(err error) map[string]string {
	if err == nil {
		return nil
	}
	out := make(map[string]string)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out["error"] = "Invalid request format"
		return out
	}
	for _, e := range verrs {
		field := e.Field()
		switch e.Tag() {
		case "required":
			out[field] = "This field is required"
		case "email":
			out[field] = "Invalid email format"
		case "role":
			out[field] = "Must be one of farmer, landowner, buyer"
		case "password":
			out[field] = "Must be at least 8 characters with a letter and a number"
		case "fullname":
			out[field] = "Only letters, spaces, hyphens and apostrophes are allowed"
		case "oneof":
			out[field] = fmt.Sprintf("Must be one of %s", e.Param())
		case "gt":
			out[field] = fmt.Sprintf("Must be greater than %s", e.Param())
		case "gte":
			out[field] = fmt.Sprintf("Must be at least %s", e.Param())
		case "lte":
			out[field] = fmt.Sprintf("Must be at most %s", e.Param())
		case "min":
			out[field] = fmt.Sprintf("Must be at least %s characters", e.Param())
		case "max":
			out[field] = fmt.Sprintf("Must be at most %s characters", e.Param())
		case "uuid":
			out[field] = "Must be a valid UUID"
		case "url":
			out[field] = "Must be a valid URL"
		default:
			out[field] = "Invalid value"
		}
	}
	return out
}
