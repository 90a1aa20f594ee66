package auth_http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"yatube/internal/application/form"
	"yatube/internal/custom_errors"
	model "yatube/internal/domain/models"
	auth_service "yatube/internal/domain/ports/input/auth"
	ports "yatube/internal/domain/ports/output"
	"yatube/internal/infrastructure/inbound/http/web"
)

type Registrar interface {
	Register(ctx context.Context, signup *auth_service.SignupDTO) (*model.User, error)
}

type SignupHandler struct {
	authService Registrar
	sessions    SessionStarter
	renderer    *web.Renderer
	log         ports.Logger
}

func NewSignupHandler(authService Registrar, sessions SessionStarter, renderer *web.Renderer, log ports.Logger) *SignupHandler {
	return &SignupHandler{authService: authService, sessions: sessions, renderer: renderer, log: log}
}

func (h *SignupHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.renderer.Render(w, r, http.StatusOK, web.PageSignup, web.SignupContent{})
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	content := web.SignupContent{
		Values: form.SignupValues{
			FirstName: r.PostForm.Get("first_name"),
			LastName:  r.PostForm.Get("last_name"),
			Username:  r.PostForm.Get(form.FieldUsername),
			Email:     r.PostForm.Get(form.FieldEmail),
			Password:  r.PostForm.Get(form.FieldPassword),
			Password2: r.PostForm.Get(form.FieldPassword2),
		},
	}

	signup, errs := form.ValidateSignup(content.Values)
	if errs != nil {
		content.Errors = errs
		h.renderer.Render(w, r, http.StatusOK, web.PageSignup, content)
		return
	}

	user, err := h.authService.Register(r.Context(), signup)
	if err != nil {
		switch {
		case errors.Is(err, custom_errors.ErrUsernameTaken):
			content.Errors = form.FieldErrors{}
			content.Errors.Add(form.FieldUsername, "A user with that username already exists.")
			h.renderer.Render(w, r, http.StatusOK, web.PageSignup, content)
			return
		case errors.Is(err, custom_errors.ErrPasswordTooLong):
			content.Errors = form.FieldErrors{}
			content.Errors.Add(form.FieldPassword, "Ensure this value has at most 72 bytes.")
			h.renderer.Render(w, r, http.StatusOK, web.PageSignup, content)
			return
		}
		h.log.Error("Failed to register user", slog.String("error", err.Error()))
		h.renderer.ServerError(w, r)
		return
	}

	if err := h.sessions.Login(r.Context(), user); err != nil {
		h.log.Error("Failed to start session", slog.Int64("user_id", user.ID), slog.String("error", err.Error()))
		h.renderer.ServerError(w, r)
		return
	}

	http.Redirect(w, r, homeURL, http.StatusFound)
}
