package http_server

import (
	"net/http"
	"strings"

	auth_service "yatube/internal/domain/ports/input/auth"
	post_service "yatube/internal/domain/ports/input/post"
	ports "yatube/internal/domain/ports/output"
	auth_http "yatube/internal/infrastructure/inbound/http/auth"
	post_http "yatube/internal/infrastructure/inbound/http/post"
	"yatube/internal/infrastructure/inbound/http/web"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type RouterDeps struct {
	PostService post_service.Service
	AuthService auth_service.Service
	Sessions    *web.Sessions
	Renderer    *web.Renderer
	Log         ports.Logger
	Metrics     ports.MetricsProvider
}

func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(web.Observe(deps.Log, deps.Metrics))
	r.Use(web.Recover(deps.Log, deps.Renderer))
	r.Use(deps.Sessions.LoadAndSave)
	r.Use(deps.Sessions.Viewer)
	r.Use(middleware.GetHead)

	page := func(name string) http.HandlerFunc {
		return func(w http.ResponseWriter, req *http.Request) {
			deps.Renderer.Render(w, req, http.StatusOK, name, nil)
		}
	}

	r.Method(http.MethodGet, "/", post_http.NewIndexHandler(deps.PostService, deps.Renderer, deps.Log))
	r.Method(http.MethodGet, "/group/{slug}/", post_http.NewGroupPostsHandler(deps.PostService, deps.Renderer, deps.Log))
	r.Method(http.MethodGet, "/profile/{username}/", post_http.NewProfileHandler(deps.PostService, deps.Renderer, deps.Log))
	r.Method(http.MethodGet, "/posts/{postID}/", post_http.NewPostDetailHandler(deps.PostService, deps.Renderer, deps.Log))

	r.Group(func(r chi.Router) {
		r.Use(deps.Sessions.RequireLogin)

		create := post_http.NewCreatePostHandler(deps.PostService, deps.Renderer, deps.Log)
		r.Method(http.MethodGet, "/create/", create)
		r.Method(http.MethodPost, "/create/", create)

		edit := post_http.NewEditPostHandler(deps.PostService, deps.Renderer, deps.Log)
		r.Method(http.MethodGet, "/posts/{postID}/edit/", edit)
		r.Method(http.MethodPost, "/posts/{postID}/edit/", edit)
	})

	r.Route("/auth", func(r chi.Router) {
		login := auth_http.NewLoginHandler(deps.AuthService, deps.Sessions, deps.Renderer, deps.Log)
		r.Method(http.MethodGet, "/login/", login)
		r.Method(http.MethodPost, "/login/", login)

		logout := auth_http.NewLogoutHandler(deps.Sessions, deps.Renderer, deps.Log)
		r.Method(http.MethodGet, "/logout/", logout)
		r.Method(http.MethodPost, "/logout/", logout)

		signup := auth_http.NewSignupHandler(deps.AuthService, deps.Sessions, deps.Renderer, deps.Log)
		r.Method(http.MethodGet, "/signup/", signup)
		r.Method(http.MethodPost, "/signup/", signup)
	})

	r.Get("/about/author/", page(web.PageAboutAuthor))
	r.Get("/about/tech/", page(web.PageAboutTech))

	r.NotFound(appendSlash(r, deps.Renderer))

	return r
}

// appendSlash redirects /path to /path/ when only the slashed form is routed.
func appendSlash(mux *chi.Mux, renderer *web.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		path := req.URL.Path
		if !strings.HasSuffix(path, "/") && (req.Method == http.MethodGet || req.Method == http.MethodHead) {
			// HEAD is served by the GET routes.
			if mux.Match(chi.NewRouteContext(), http.MethodGet, path+"/") {
				target := path + "/"
				if req.URL.RawQuery != "" {
					target += "?" + req.URL.RawQuery
				}
				http.Redirect(w, req, target, http.StatusMovedPermanently)
				return
			}
		}
		renderer.NotFound(w, req)
	}
}
