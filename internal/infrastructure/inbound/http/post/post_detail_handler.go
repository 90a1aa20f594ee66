package post_http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"yatube/internal/custom_errors"
	model "yatube/internal/domain/models"
	ports "yatube/internal/domain/ports/output"
	"yatube/internal/infrastructure/inbound/http/web"

	"github.com/go-chi/chi/v5"
)

type PostGetter interface {
	GetPostByID(ctx context.Context, id int64) (*model.PostDetailed, error)
}

type PostDetailHandler struct {
	postService PostGetter
	renderer    *web.Renderer
	log         ports.Logger
}

func NewPostDetailHandler(postService PostGetter, renderer *web.Renderer, log ports.Logger) *PostDetailHandler {
	return &PostDetailHandler{postService: postService, renderer: renderer, log: log}
}

// postID parses the {postID} route parameter. Only positive integers are valid.
func postID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "postID"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func (h *PostDetailHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(r)
	if !ok {
		h.renderer.NotFound(w, r)
		return
	}
	h.log.Debug("Handling post detail request", slog.Int64("post_id", id))

	post, err := h.postService.GetPostByID(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, custom_errors.ErrPostNotFound):
			h.renderer.NotFound(w, r)
		default:
			h.log.Error("Failed to get post", slog.Int64("post_id", id), slog.String("error", err.Error()))
			h.renderer.ServerError(w, r)
		}
		return
	}

	viewer := web.ViewerFrom(r.Context())
	h.renderer.Render(w, r, http.StatusOK, web.PagePostDetail, web.PostDetailContent{
		Post:    post,
		CanEdit: viewer != nil && viewer.ID == post.Post.AuthorID,
	})
}

func detailURL(id int64) string {
	return "/posts/" + strconv.FormatInt(id, 10) + "/"
}
