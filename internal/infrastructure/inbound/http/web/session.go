package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"yatube/internal/custom_errors"
	model "yatube/internal/domain/models"
	ports "yatube/internal/domain/ports/output"
	"yatube/internal/infrastructure/config"

	"github.com/alexedwards/scs/v2"
)

const userIDKey = "user_id"

type viewerKey struct{}

type UserGetter interface {
	GetUser(ctx context.Context, id int64) (*model.User, error)
}

func NewSessionManager(cfg config.Session, store scs.Store) *scs.SessionManager {
	sm := scs.New()
	sm.Store = store
	sm.IdleTimeout = cfg.IdleTimeout
	sm.Lifetime = cfg.Lifetime
	sm.Cookie.Name = cfg.CookieName
	sm.Cookie.HttpOnly = true
	sm.Cookie.Path = "/"
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = cfg.Secure
	return sm
}

type Sessions struct {
	manager  *scs.SessionManager
	users    UserGetter
	loginURL string
	log      ports.Logger
}

func NewSessions(manager *scs.SessionManager, users UserGetter, loginURL string, log ports.Logger) *Sessions {
	return &Sessions{manager: manager, users: users, loginURL: loginURL, log: log}
}

// Login binds the session to the user under a fresh token.
func (s *Sessions) Login(ctx context.Context, user *model.User) error {
	if err := s.manager.RenewToken(ctx); err != nil {
		return err
	}
	s.manager.Put(ctx, userIDKey, user.ID)
	return nil
}

func (s *Sessions) Logout(ctx context.Context) error {
	return s.manager.Destroy(ctx)
}

// LoadAndSave must wrap every handler that reads the viewer.
func (s *Sessions) LoadAndSave(next http.Handler) http.Handler {
	return s.manager.LoadAndSave(next)
}

// Viewer resolves the logged-in user, if any, and stores it in the request context.
func (s *Sessions) Viewer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := s.manager.GetInt64(r.Context(), userIDKey)
		if id == 0 {
			next.ServeHTTP(w, r)
			return
		}

		user, err := s.users.GetUser(r.Context(), id)
		if err != nil {
			if errors.Is(err, custom_errors.ErrUserNotFound) {
				s.log.Debug("Session refers to missing user", slog.Int64("user_id", id))
				s.manager.Remove(r.Context(), userIDKey)
			} else {
				s.log.Error("Failed to resolve session user", slog.Int64("user_id", id), slog.String("error", err.Error()))
			}
			next.ServeHTTP(w, r)
			return
		}

		ctx := WithViewer(r.Context(), user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireLogin redirects anonymous requests to the login page with a next parameter.
func (s *Sessions) RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ViewerFrom(r.Context()) != nil {
			next.ServeHTTP(w, r)
			return
		}
		http.Redirect(w, r, LoginRedirectURL(s.loginURL, r.URL), http.StatusFound)
	})
}

func ViewerFrom(ctx context.Context) *model.User {
	user, _ := ctx.Value(viewerKey{}).(*model.User)
	return user
}

// WithViewer returns a copy of ctx carrying user as the viewer.
func WithViewer(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, viewerKey{}, user)
}

func LoginRedirectURL(loginURL string, original *url.URL) string {
	return loginURL + "?" + url.Values{"next": {original.RequestURI()}}.Encode()
}

// SafeNext returns next when it is a path on this site, fallback otherwise.
func SafeNext(next, fallback string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return fallback
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return fallback
	}
	return next
}
