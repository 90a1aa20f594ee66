package auth_http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"yatube/internal/application/form"
	"yatube/internal/custom_errors"
	model "yatube/internal/domain/models"
	ports "yatube/internal/domain/ports/output"
	"yatube/internal/infrastructure/inbound/http/web"
)

const (
	homeURL       = "/"
	fieldNext     = "next"
	badLoginError = "Please enter a correct username and password. Note that both fields may be case-sensitive."
)

type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (*model.User, error)
}

type SessionStarter interface {
	Login(ctx context.Context, user *model.User) error
}

type LoginHandler struct {
	authService Authenticator
	sessions    SessionStarter
	renderer    *web.Renderer
	log         ports.Logger
}

func NewLoginHandler(authService Authenticator, sessions SessionStarter, renderer *web.Renderer, log ports.Logger) *LoginHandler {
	return &LoginHandler{authService: authService, sessions: sessions, renderer: renderer, log: log}
}

func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.renderer.Render(w, r, http.StatusOK, web.PageLogin, web.LoginContent{
			Next: r.URL.Query().Get(fieldNext),
		})
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	content := web.LoginContent{
		Values: form.LoginValues{
			Username: r.PostForm.Get(form.FieldUsername),
			Password: r.PostForm.Get(form.FieldPassword),
		},
		Next: r.PostForm.Get(fieldNext),
	}

	values, errs := form.ValidateLogin(content.Values)
	if errs != nil {
		content.Errors = errs
		h.renderer.Render(w, r, http.StatusOK, web.PageLogin, content)
		return
	}

	user, err := h.authService.Authenticate(r.Context(), values.Username, values.Password)
	if err != nil {
		if errors.Is(err, custom_errors.ErrInvalidCredentials) {
			content.Errors = form.FieldErrors{}
			content.Errors.Add(form.FieldNonField, badLoginError)
			h.renderer.Render(w, r, http.StatusOK, web.PageLogin, content)
			return
		}
		h.log.Error("Failed to authenticate", slog.String("error", err.Error()))
		h.renderer.ServerError(w, r)
		return
	}

	if err := h.sessions.Login(r.Context(), user); err != nil {
		h.log.Error("Failed to start session", slog.Int64("user_id", user.ID), slog.String("error", err.Error()))
		h.renderer.ServerError(w, r)
		return
	}

	http.Redirect(w, r, web.SafeNext(content.Next, homeURL), http.StatusFound)
}
