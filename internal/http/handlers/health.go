package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"github.com/pribylovaa/articles-service/internal/http/dto"
	logctx "github.com/pribylovaa/articles-service/internal/pkg/log"
)

const (
	MsgHealthy = "API is running successfully"

	pingTimeout = 2 * time.Second
)

// Health - GET {base}/health.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, dto.HealthResponse{Message: MsgHealthy})
}

// Livez - процесс жив.
func (h *Handlers) Livez(w http.ResponseWriter, r *http.Request) {
	render.PlainText(w, r, "ok")
}

// Healthz - готовность: сервис не в остановке и хранилище отвечает на ping.
func (h *Handlers) Healthz(w http.ResponseWriter, r *http.Request) {
	if h.ready != nil && !h.ready.Load() {
		render.Status(r, http.StatusServiceUnavailable)
		render.PlainText(w, r, "not ready")
		return
	}

	if h.pinger != nil {
		ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
		defer cancel()

		if err := h.pinger.Ping(ctx); err != nil {
			logctx.From(ctx).Warn("store ping failed", "err", err)
			render.Status(r, http.StatusServiceUnavailable)
			render.PlainText(w, r, "store unavailable")
			return
		}
	}

	render.PlainText(w, r, "ok")
}
