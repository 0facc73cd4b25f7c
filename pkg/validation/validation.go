package validation

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// messages текст для тегов валидатора
var messages = map[string]string{
	"required": "is required",
	"email":    "must be a valid e-mail",
	"numeric":  "must contain only digits",
	"min":      "is too short",
	"max":      "is too long",
	"oneof":    "must be one of: ",
}

// ValidateStruct проверяет структуру по тегам validate
func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// FirstError форматирует первую ошибку валидации для ответа клиенту
func FirstError(err error) string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		if err == nil {
			return ""
		}
		return err.Error()
	}

	first := validationErrs[0]
	field := strings.ToLower(first.Field())
	msg, ok := messages[first.Tag()]
	if !ok {
		msg = "is invalid"
	}
	if first.Tag() == "oneof" {
		msg += strings.Join(strings.Fields(first.Param()), ", ")
	}
	return field + " " + msg
}
