package auth_http

import (
	"context"
	"log/slog"
	"net/http"

	ports "yatube/internal/domain/ports/output"
	"yatube/internal/infrastructure/inbound/http/web"
)

type SessionEnder interface {
	Logout(ctx context.Context) error
}

type LogoutHandler struct {
	sessions SessionEnder
	renderer *web.Renderer
	log      ports.Logger
}

func NewLogoutHandler(sessions SessionEnder, renderer *web.Renderer, log ports.Logger) *LogoutHandler {
	return &LogoutHandler{sessions: sessions, renderer: renderer, log: log}
}

func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Logout(r.Context()); err != nil {
		h.log.Error("Failed to destroy session", slog.String("error", err.Error()))
		h.renderer.ServerError(w, r)
		return
	}
	h.renderer.Render(w, r.WithContext(web.WithViewer(r.Context(), nil)), http.StatusOK, web.PageLoggedOut, nil)
}
