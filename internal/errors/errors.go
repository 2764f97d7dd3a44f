// errors стандартизирует ответы об ошибках HTTP-слоя articles-service.
// На вход принимает ошибку сервисного слоя (или HTTP-слоя), на выход даёт:
//   - корректный HTTP-статус;
//   - единый конверт {success:false, message, errors?} без утечки деталей.
//
// Это единственное место, формирующее тела 4xx/5xx для ошибок контроллеров.
package errors

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/pribylovaa/articles-service/internal/http/dto"
	"github.com/pribylovaa/articles-service/internal/models"
	logctx "github.com/pribylovaa/articles-service/internal/pkg/log"
	"github.com/pribylovaa/articles-service/internal/service"
)

const (
	MsgValidationFailed = "Validation failed"
	MsgArticleNotFound  = "Article not found"
	MsgRouteNotFound    = "Route not found"
	MsgMethodNotAllowed = "Method not allowed"
	MsgInternal         = "Internal server error"
)

// ErrRouteNotFound и ErrMethodNotAllowed - ошибки маршрутизации chi.
var (
	ErrRouteNotFound    = errors.New("route not found")
	ErrMethodNotAllowed = errors.New("method not allowed")
)

// ToHTTP конвертирует ошибку в HTTP-статус и конверт ответа.
//
// Поведение:
//   - err == nil - программная ошибка вызова: 500, чтобы не отдать "200 OK" с телом ошибки;
//   - *models.ValidationError в цепочке - 400 со списком сообщений;
//   - service.ErrInvalidID / service.ErrNotFound - 404 (битый ID трактуется как "не найдено");
//   - ошибки маршрутизации - 404 / 405;
//   - прочее - 500 без деталей.
func ToHTTP(err error) (int, dto.Envelope) {
	if err == nil {
		return http.StatusInternalServerError, dto.Failure(MsgInternal)
	}

	if ve, ok := models.AsValidationError(err); ok {
		return http.StatusBadRequest, dto.Failure(MsgValidationFailed, ve.Messages()...)
	}

	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest, dto.Failure(MsgValidationFailed)
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrInvalidID):
		return http.StatusNotFound, dto.Failure(MsgArticleNotFound)
	case errors.Is(err, ErrRouteNotFound):
		return http.StatusNotFound, dto.Failure(MsgRouteNotFound)
	case errors.Is(err, ErrMethodNotAllowed):
		return http.StatusMethodNotAllowed, dto.Failure(MsgMethodNotAllowed)
	default:
		return http.StatusInternalServerError, dto.Failure(MsgInternal)
	}
}

// WriteError - хелпер для HTTP-хендлеров и мидлваров.
// Пишет статус и тело; для 5xx добавляет request_id и логирует исходную ошибку.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := ToHTTP(err)

	if status >= http.StatusInternalServerError {
		if rid := r.Header.Get("X-Request-Id"); rid != "" {
			resp.RequestID = rid
		}

		logctx.From(r.Context()).LogAttrs(r.Context(), slog.LevelError, "request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Any("err", err),
		)
	}

	render.Status(r, status)
	render.JSON(w, r, resp)
}

// HandlerFunc - контроллер, возвращающий ошибку вместо самостоятельной записи ответа.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// Handle адаптирует HandlerFunc к http.HandlerFunc: любая возвращённая ошибка
// форматируется через WriteError.
func Handle(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h(w, r); err != nil {
			WriteError(w, r, err)
		}
	}
}
