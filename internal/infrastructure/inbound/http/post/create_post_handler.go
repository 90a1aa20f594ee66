package post_http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"yatube/internal/application/form"
	"yatube/internal/custom_errors"
	model "yatube/internal/domain/models"
	ports "yatube/internal/domain/ports/output"
	"yatube/internal/infrastructure/inbound/http/web"
)

type PostCreator interface {
	ListGroups(ctx context.Context) ([]*model.Group, error)
	CreatePost(ctx context.Context, authorID int64, input *model.PostInput) (*model.Post, error)
}

type CreatePostHandler struct {
	postService PostCreator
	renderer    *web.Renderer
	log         ports.Logger
}

func NewCreatePostHandler(postService PostCreator, renderer *web.Renderer, log ports.Logger) *CreatePostHandler {
	return &CreatePostHandler{postService: postService, renderer: renderer, log: log}
}

func postValues(r *http.Request) form.PostValues {
	return form.PostValues{
		Text:  r.PostForm.Get(form.FieldText),
		Group: r.PostForm.Get(form.FieldGroup),
	}
}

func (h *CreatePostHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	viewer := web.ViewerFrom(r.Context())

	groups, err := h.postService.ListGroups(r.Context())
	if err != nil {
		h.log.Error("Failed to list groups", slog.String("error", err.Error()))
		h.renderer.ServerError(w, r)
		return
	}

	content := web.PostFormContent{Groups: groups}

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
		h.log.Debug("Post form is invalid", slog.String("errors", errs.Error()))
		content.Errors = errs
		h.renderer.Render(w, r, http.StatusOK, web.PageCreatePost, content)
		return
	}

	_, err = h.postService.CreatePost(r.Context(), viewer.ID, input)
	if err != nil {
		switch {
		case errors.Is(err, custom_errors.ErrGroupNotFound):
			content.Errors = form.FieldErrors{}
			content.Errors.Add(form.FieldGroup, "Select a valid choice. That choice is not one of the available choices.")
			h.renderer.Render(w, r, http.StatusOK, web.PageCreatePost, content)
		default:
			h.log.Error("Failed to create post", slog.Int64("author_id", viewer.ID), slog.String("error", err.Error()))
			h.renderer.ServerError(w, r)
		}
		return
	}

	http.Redirect(w, r, "/profile/"+url.PathEscape(viewer.Username)+"/", http.StatusFound)
}
