package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	model "yatube/internal/domain/models"
	ports "yatube/internal/domain/ports/output"

	"gitlab.com/golang-commonmark/markdown"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	PageIndex       = "index"
	PageGroupList   = "group_list"
	PageProfile     = "profile"
	PagePostDetail  = "post_detail"
	PageCreatePost  = "create_post"
	PageLogin       = "login"
	PageSignup      = "signup"
	PageLoggedOut   = "logged_out"
	PageAboutAuthor = "about_author"
	PageAboutTech   = "about_tech"
	PageNotFound    = "404"
	PageServerError = "500"
)

var pageNames = []string{
	PageIndex, PageGroupList, PageProfile, PagePostDetail, PageCreatePost,
	PageLogin, PageSignup, PageLoggedOut, PageAboutAuthor, PageAboutTech,
	PageNotFound, PageServerError,
}

// View is what every page template receives. Content carries the page data.
type View struct {
	Viewer  *model.User
	Path    string
	Content any
}

type Renderer struct {
	pages map[string]*template.Template
	log   ports.Logger
}

func NewRenderer(log ports.Logger) (*Renderer, error) {
	md := markdown.New(markdown.HTML(false), markdown.Breaks(true), markdown.Linkify(true))

	funcs := template.FuncMap{
		"markdown": func(s string) template.HTML {
			return template.HTML(md.RenderToString([]byte(s)))
		},
		"date": func(t time.Time) string {
			return t.Format("2 January 2006")
		},
		"pageURL": func(number int) string {
			return "?page=" + strconv.Itoa(number)
		},
	}

	base, err := template.New("base.html").Funcs(funcs).ParseFS(templateFS, "templates/base.html", "templates/_*.html")
	if err != nil {
		return nil, fmt.Errorf("parse base templates: %w", err)
	}

	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		page, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone base template: %w", err)
		}
		if _, err := page.ParseFS(templateFS, "templates/"+name+".html"); err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		pages[name] = page
	}

	return &Renderer{pages: pages, log: log}, nil
}

// Render executes the named page into a buffer before writing anything,
// so a template error still yields a clean 500.
func (r *Renderer) Render(w http.ResponseWriter, req *http.Request, status int, name string, content any) {
	page, ok := r.pages[name]
	if !ok {
		r.log.Error("Unknown template", slog.String("name", name))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	view := View{
		Viewer:  ViewerFrom(req.Context()),
		Path:    req.URL.Path,
		Content: content,
	}

	var buf bytes.Buffer
	if err := page.ExecuteTemplate(&buf, "base.html", view); err != nil {
		r.log.Error("Failed to render template", slog.String("name", name), slog.String("error", err.Error()))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (r *Renderer) NotFound(w http.ResponseWriter, req *http.Request) {
	r.Render(w, req, http.StatusNotFound, PageNotFound, nil)
}

func (r *Renderer) ServerError(w http.ResponseWriter, req *http.Request) {
	r.Render(w, req, http.StatusInternalServerError, PageServerError, nil)
}
