package common

import (
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/gofiber/fiber/v2"

	"github.com/smugflex-sys/Final-sub000/app/models"
)

var (
	Validate   *validator.Validate
	Translator ut.Translator

	// custom validation tags
	enumTag    = "enum"
	sessionTag = "session"

	sessionPattern = regexp.MustCompile(`^\d{4}/\d{4}$`)
)

func init() {
	Validate = validator.New()

	_en := en.New()
	uni := ut.New(_en, _en)
	Translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(Validate, Translator)

	// Use JSON tag names for errors instead of Go struct names.
	Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = Validate.RegisterValidation(enumTag, enumValidation)
	_ = Validate.RegisterValidation(sessionTag, sessionValidation)

	registerFn := func(ut.Translator) error { return nil }
	for _, tag := range []string{enumTag, sessionTag} {
		_ = Validate.RegisterTranslation(tag, Translator, registerFn, translateCustomValidationErrs)
	}
}

func translateCustomValidationErrs(_ ut.Translator, fe validator.FieldError) string {
	switch fe.Tag() {
	case enumTag:
		return fe.Field() + " has an unsupported value"
	case sessionTag:
		return fe.Field() + " must look like 2024/2025"
	default:
		return ""
	}
}

func enumValidation(fl validator.FieldLevel) bool {
	if e, ok := fl.Field().Interface().(models.Enum); ok {
		return e.Valid()
	}
	return false
}

// sessionValidation accepts "YYYY/YYYY" where the second year follows the first.
func sessionValidation(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if !sessionPattern.MatchString(s) {
		return false
	}
	return atoi4(s[5:])-atoi4(s[:4]) == 1
}

func atoi4(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}

// ValidationError carries a message per invalid field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

// NewValidationError reports a single invalid field.
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// ValidateStruct runs the validate tags of v.
func ValidateStruct(v interface{}) error {
	err := Validate.Struct(v)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Translate(Translator)
	}
	return &ValidationError{Fields: fields}
}

// ParseBody decodes the request body into dst and validates it.
func ParseBody(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	return ValidateStruct(dst)
}

// Describe flattens an error into one line, listing validation fields in order.
func Describe(err error) string {
	ve, ok := err.(*ValidationError)
	if !ok {
		return err.Error()
	}
	keys := make([]string, 0, len(ve.Fields))
	for k := range ve.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	msgs := make([]string, len(keys))
	for i, k := range keys {
		msgs[i] = ve.Fields[k]
	}
	return strings.Join(msgs, "; ")
}

// Capitalize upper-cases the first letter and lower-cases the rest, so
// spreadsheet values like "MALE" match the enums.
func Capitalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
