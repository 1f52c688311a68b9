// Package validation holds the storefront's field and form validation rules.
// Field rules are registered as custom validations on a shared
// go-playground/validator instance; cross-field rules are plain functions
// called by the services after struct validation passes.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// NonFieldKey is the key under which cross-field (form-level) errors are
// reported in a FieldErrors map.
const NonFieldKey = "non_field"

var (
	textRe      = regexp.MustCompile(`^[A-Za-z\s]+$`)
	usernameRe  = regexp.MustCompile(`^[a-zA-Z0-9._]+$`)
	phoneRe     = regexp.MustCompile(`^\+?[0-9]{10,15}$`)
	firstNameRe = regexp.MustCompile(`^[a-zA-Z\s-]+$`)
	lastNameRe  = regexp.MustCompile(`^[a-zA-Z]+$`)
	lettersRe   = regexp.MustCompile(`^[A-Za-z]+$`)
	spacesRe    = regexp.MustCompile(`\s+`)
)

// FieldErrors maps a field name (or NonFieldKey) to a validation message.
// It implements error so services can return it directly.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	parts := make([]string, 0, len(e))
	for field, msg := range e {
		parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// New returns a validator with all custom storefront validations registered.
func New() *validator.Validate {
	v := validator.New()

	// These can only fail on a non-string field, which would be a programming
	// error, so the registration errors are ignored.
	_ = v.RegisterValidation("titlecase_text", validateTitlecaseText)
	_ = v.RegisterValidation("username_chars", func(fl validator.FieldLevel) bool {
		return usernameRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("phone_number", func(fl validator.FieldLevel) bool {
		return phoneRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("first_name_chars", func(fl validator.FieldLevel) bool {
		return firstNameRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("last_name_chars", func(fl validator.FieldLevel) bool {
		return lastNameRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("letters_only", func(fl validator.FieldLevel) bool {
		return lettersRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("calories_step", func(fl validator.FieldLevel) bool {
		return fl.Field().Int()%5 == 0
	})
	_ = v.RegisterValidation("allergen_list", validateAllergenList)

	return v
}

// validateTitlecaseText accepts letters and whitespace only, with the first
// word starting on a capital letter.
func validateTitlecaseText(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if !textRe.MatchString(value) {
		return false
	}
	words := strings.Fields(value)
	if len(words) == 0 {
		return false
	}
	return unicode.IsUpper(rune(words[0][0]))
}

// validateAllergenList accepts at most 5 comma-separated tokens containing no
// digit characters. An empty value is accepted; use "required" to forbid it.
func validateAllergenList(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	if len(strings.Split(value, ",")) > 5 {
		return false
	}
	return !strings.ContainsFunc(value, unicode.IsDigit)
}

// Message translates a failed validation into the user-facing message for
// that rule. Unknown tags fall back to a generic message.
func Message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field cannot be left blank."
	case "email":
		return "Enter a valid email address."
	case "titlecase_text":
		return "Must contain only letters and spaces and start with a capital letter."
	case "username_chars":
		return "The username can only contain letters, numbers, underscores (_), and dots (.)"
	case "phone_number":
		return "Invalid phone number format."
	case "first_name_chars":
		return "The first name can only contain letters."
	case "last_name_chars":
		return "The last name can only contain letters."
	case "letters_only":
		return "Must only contain letters."
	case "calories_step":
		return "Calories must be a multiple of 5."
	case "allergen_list":
		return "You can specify a maximum of 5 allergens, without numbers."
	case "gt":
		return fmt.Sprintf("Must be greater than %s.", fe.Param())
	case "gte":
		return fmt.Sprintf("Must be at least %s.", fe.Param())
	case "lte":
		return fmt.Sprintf("Must not exceed %s.", fe.Param())
	case "min":
		return fmt.Sprintf("Must be at least %s characters long.", fe.Param())
	case "max":
		return fmt.Sprintf("Must not exceed %s characters.", fe.Param())
	case "oneof":
		return fmt.Sprintf("Must be one of: %s.", fe.Param())
	default:
		return fmt.Sprintf("Field failed on the '%s' rule.", fe.Tag())
	}
}

// Collect converts a validator error into FieldErrors keyed by the json-ish
// snake_case field name.
func Collect(err error) FieldErrors {
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return FieldErrors{NonFieldKey: err.Error()}
	}
	out := make(FieldErrors, len(errs))
	for _, fe := range errs {
		out[snakeCase(fe.Field())] = Message(fe)
	}
	return out
}

// snakeCase lowercases a Go field name, splitting on case boundaries. A run
// of uppercase letters counts as one word, so ProductIDs becomes product_ids.
func snakeCase(name string) string {
	var b strings.Builder
	var prev rune
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 && (unicode.IsLower(prev) || unicode.IsDigit(prev)) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(r)
		}
		prev = r
	}
	return b.String()
}

// NormalizeMessage collapses newlines and runs of whitespace into single
// spaces and trims the result.
func NormalizeMessage(message string) string {
	return strings.TrimSpace(spacesRe.ReplaceAllString(strings.ReplaceAll(message, "\n", " "), " "))
}

// WordCount counts whitespace-delimited words.
func WordCount(message string) int {
	return len(strings.Fields(message))
}

// ContainsURL reports whether the message carries an http(s) link.
func ContainsURL(message string) bool {
	return strings.Contains(message, "http://") || strings.Contains(message, "https://")
}

// AgeYears computes a calendar-aware age in whole years: the year difference
// is reduced by one when the birthday has not yet occurred this year.
func AgeYears(birthDate, today time.Time) int {
	age := today.Year() - birthDate.Year()
	if today.Month() < birthDate.Month() ||
		(today.Month() == birthDate.Month() && today.Day() < birthDate.Day()) {
		age--
	}
	return age
}

// AgeDescription renders an age as "X years and Y months".
func AgeDescription(birthDate, today time.Time) string {
	years := today.Year() - birthDate.Year()
	months := int(today.Month()) - int(birthDate.Month())
	if today.Day() < birthDate.Day() {
		months--
	}
	if months < 0 {
		years--
		months += 12
	}
	return fmt.Sprintf("%d years and %d months", years, months)
}
