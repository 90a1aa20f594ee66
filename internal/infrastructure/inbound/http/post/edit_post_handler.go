package post_http

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

type PostEditor interface {
	GetPostByID(ctx context.Context, id int64) (*model.PostDetailed, error)
	ListGroups(ctx context.Context) ([]*model.Group, error)
	UpdatePost(ctx context.Context, userID int64, id int64, input *model.PostInput) (*model.Post, error)
}

type EditPostHandler struct {
	postService PostEditor
	renderer    *web.Renderer
	log         ports.Logger
}

func NewEditPostHandler(postService PostEditor, renderer *web.Renderer, log ports.Logger) *EditPostHandler {
	return &EditPostHandler{postService: postService, renderer: renderer, log: log}
}

// ServeHTTP sends anyone but the author back to the post page without a message.
func (h *EditPostHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(r)
	if !ok {
		h.renderer.NotFound(w, r)
		return
	}
	viewer := web.ViewerFrom(r.Context())

	post, err := h.postService.GetPostByID(r.Context(), id)
	if err != nil {
		h.fail(w, r, id, err)
		return
	}
	if post.Post.AuthorID != viewer.ID {
		h.log.Debug("Edit attempt by non-author", slog.Int64("post_id", id), slog.Int64("user_id", viewer.ID))
		http.Redirect(w, r, detailURL(id), http.StatusFound)
		return
	}

	groups, err := h.postService.ListGroups(r.Context())
	if err != nil {
		h.fail(w, r, id, err)
		return
	}

	content := web.PostFormContent{
		IsEdit: true,
		PostID: id,
		Values: form.PostValuesFrom(post.Post),
		Groups: groups,
	}

	if r.Method != http.MethodPost {
		h.renderer.Render(w, r, http.StatusOK, web.PageCreatePost, content)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.log.Debug("Failed to parse post form", slog.String("error", err.Error()))
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	content.Values = postValues(r)

	input, errs := form.ValidatePost(content.Values, groups)
	if errs != nil {
		h.log.Debug("Post form is invalid", slog.Int64("post_id", id), slog.String("errors", errs.Error()))
		content.Errors = errs
		h.renderer.Render(w, r, http.StatusOK, web.PageCreatePost, content)
		return
	}

	_, err = h.postService.UpdatePost(r.Context(), viewer.ID, id, input)
	if err != nil {
		if errors.Is(err, custom_errors.ErrGroupNotFound) {
			content.Errors = form.FieldErrors{}
			content.Errors.Add(form.FieldGroup, "Select a valid choice. That choice is not one of the available choices.")
			h.renderer.Render(w, r, http.StatusOK, web.PageCreatePost, content)
			return
		}
		h.fail(w, r, id, err)
		return
	}

	http.Redirect(w, r, detailURL(id), http.StatusFound)
}

func (h *EditPostHandler) fail(w http.ResponseWriter, r *http.Request, id int64, err error) {
	switch {
	case errors.Is(err, custom_errors.ErrPostNotFound):
		h.renderer.NotFound(w, r)
	case errors.Is(err, custom_errors.ErrForbidden):
		http.Redirect(w, r, detailURL(id), http.StatusFound)
	default:
		h.log.Error("Failed to edit post", slog.Int64("post_id", id), slog.String("error", err.Error()))
		h.renderer.ServerError(w, r)
	}
}
