package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Сообщения об ошибках валидации. Используются и pre-handler проверкой HTTP-слоя.
const (
	MsgTitleRequired   = "Title is required"
	MsgTitleTooLong    = "Title cannot exceed 200 characters"
	MsgContentRequired = "Content is required"
	MsgTooManyTags     = "Cannot have more than 5 tags"
)

// FieldError - одно нарушенное ограничение поля.
type FieldError struct {
	Field  string
	Reason string
}

// ValidationError перечисляет все нарушенные ограничения сущности.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages(), "; ")
}

// Messages возвращает человекочитаемые сообщения в порядке полей.
func (e *ValidationError) Messages() []string {
	out := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		out = append(out, f.Reason)
	}

	return out
}

// Add дописывает нарушение.
func (e *ValidationError) Add(field, reason string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Reason: reason})
}

// Err возвращает nil, если нарушений нет.
func (e *ValidationError) Err() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}

	return e
}

// AsValidationError достаёт *ValidationError из цепочки ошибок.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}

	return nil, false
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	return v
}

// Validate проверяет ограничения сохраняемой статьи.
// Возвращает *ValidationError со всеми нарушениями или nil.
func (a *Article) Validate() error {
	err := validate.Struct(a)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate article: %w", err)
	}

	out := &ValidationError{}
	for _, fe := range verrs {
		switch fe.Field() {
		case "Title":
			if fe.Tag() == "max" {
				out.Add("title", MsgTitleTooLong)
			} else {
				out.Add("title", MsgTitleRequired)
			}
		case "Content":
			out.Add("content", MsgContentRequired)
		case "Tags":
			out.Add("tags", MsgTooManyTags)
		default:
			out.Add(strings.ToLower(fe.Field()), fe.Error())
		}
	}

	return out.Err()
}
