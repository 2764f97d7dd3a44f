package dto

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/render"
	"github.com/pribylovaa/articles-service/internal/models"
)

// Envelope - единая обёртка всех ответов API.
type Envelope struct {
	Success   bool     `json:"success"`
	Count     *int     `json:"count,omitempty"`
	Data      any      `json:"data,omitempty"`
	Message   string   `json:"message,omitempty"`
	Errors    []string `json:"errors,omitempty"`
	RequestID string   `json:"request_id,omitempty"`
}

// HealthResponse - тело GET /health.
type HealthResponse struct {
	Message string `json:"message"`
}

func OK(data any) Envelope {
	return Envelope{Success: true, Data: data}
}

// List - успешный ответ со списком и count == len(items).
func List(items []ArticleResponse) Envelope {
	n := len(items)
	return Envelope{Success: true, Count: &n, Data: items}
}

func Failure(message string, errs ...string) Envelope {
	return Envelope{Success: false, Message: message, Errors: errs}
}

// InvalidBody - ошибка валидации для тела, которое не удалось разобрать.
func InvalidBody() *models.ValidationError {
	ve := &models.ValidationError{}
	ve.Add("body", MsgInvalidBody)
	return ve
}

// Bind декодирует тело (JSON или x-www-form-urlencoded) и вызывает v.Bind.
// Без Content-Type тело считается JSON, пустое тело - пустым объектом.
//
// Ошибки:
//   - *models.ValidationError от v.Bind возвращается как есть;
//   - любая ошибка разбора - InvalidBody().
func Bind(r *http.Request, v render.Binder) error {
	if r.Header.Get("Content-Type") == "" {
		r.Header.Set("Content-Type", "application/json")
	}

	err := render.Bind(r, v)
	switch {
	case err == nil, errors.Is(err, io.EOF):
		return nil
	default:
		if ve, ok := models.AsValidationError(err); ok {
			return ve
		}

		return InvalidBody()
	}
}

// BindArticle - Bind для ArticleRequest.
// Формы разбираются через r.ParseForm, а не render.DecodeForm:
// так принимаются повторяющиеся ключи и игнорируются неизвестные.
func BindArticle(r *http.Request) (*ArticleRequest, error) {
	req := &ArticleRequest{}

	if render.GetRequestContentType(r) == render.ContentTypeForm {
		if err := r.ParseForm(); err != nil {
			return nil, InvalidBody()
		}
		if err := req.FromForm(r.PostForm); err != nil {
			return nil, InvalidBody()
		}
		if err := req.Bind(r); err != nil {
			return nil, err
		}

		return req, nil
	}

	if err := Bind(r, req); err != nil {
		return nil, err
	}

	return req, nil
}
