// Package handlers содержит HTTP-контроллеры articles-service.
package handlers

import (
	"context"
	"net/http"
	"sync/atomic"

	"github.com/go-chi/render"

	"github.com/pribylovaa/articles-service/internal/service"
)

// Pinger - проверка доступности хранилища для /healthz.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handlers агрегирует зависимости контроллеров.
type Handlers struct {
	svc    *service.Service
	pinger Pinger
	ready  *atomic.Bool
}

// New собирает контроллеры. pinger и ready необязательны:
// без pinger хранилище не проверяется, без ready сервис всегда готов.
func New(svc *service.Service, pinger Pinger, ready *atomic.Bool) *Handlers {
	return &Handlers{svc: svc, pinger: pinger, ready: ready}
}

// writeJSON - единый JSON-ответ со статусом. Ошибки выводим через apierrors.WriteError.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, value any) {
	render.Status(r, status)
	render.JSON(w, r, value)
}
