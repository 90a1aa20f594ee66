package post_http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"yatube/internal/application/feed"
	"yatube/internal/custom_errors"
	model "yatube/internal/domain/models"
	ports "yatube/internal/domain/ports/output"
	"yatube/internal/infrastructure/inbound/http/web"

	"github.com/go-chi/chi/v5"
)

type FeedLister interface {
	ListPosts(ctx context.Context, filters model.PostFilters, page int) (*model.Page[*model.PostDetailed], error)
	GetGroupFeed(ctx context.Context, slug string, page int) (*model.Group, *model.Page[*model.PostDetailed], error)
	GetProfileFeed(ctx context.Context, username string, page int) (*model.User, *model.Page[*model.PostDetailed], error)
}

type IndexHandler struct {
	postService FeedLister
	renderer    *web.Renderer
	log         ports.Logger
}

func NewIndexHandler(postService FeedLister, renderer *web.Renderer, log ports.Logger) *IndexHandler {
	return &IndexHandler{postService: postService, renderer: renderer, log: log}
}

func (h *IndexHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	number := feed.ParsePage(r.URL.Query().Get("page"))
	h.log.Debug("Handling index request", slog.Int("page", number))

	page, err := h.postService.ListPosts(r.Context(), model.PostFilters{}, number)
	if err != nil {
		h.log.Error("Failed to build index feed", slog.String("error", err.Error()))
		h.renderer.ServerError(w, r)
		return
	}

	h.renderer.Render(w, r, http.StatusOK, web.PageIndex, web.FeedContent{Page: page})
}

type GroupPostsHandler struct {
	postService FeedLister
	renderer    *web.Renderer
	log         ports.Logger
}

func NewGroupPostsHandler(postService FeedLister, renderer *web.Renderer, log ports.Logger) *GroupPostsHandler {
	return &GroupPostsHandler{postService: postService, renderer: renderer, log: log}
}

func (h *GroupPostsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	number := feed.ParsePage(r.URL.Query().Get("page"))
	h.log.Debug("Handling group feed request", slog.String("slug", slug), slog.Int("page", number))

	group, page, err := h.postService.GetGroupFeed(r.Context(), slug, number)
	if err != nil {
		switch {
		case errors.Is(err, custom_errors.ErrGroupNotFound):
			h.renderer.NotFound(w, r)
		default:
			h.log.Error("Failed to build group feed", slog.String("slug", slug), slog.String("error", err.Error()))
			h.renderer.ServerError(w, r)
		}
		return
	}

	h.renderer.Render(w, r, http.StatusOK, web.PageGroupList, web.GroupContent{Group: group, Page: page})
}

type ProfileHandler struct {
	postService FeedLister
	renderer    *web.Renderer
	log         ports.Logger
}

func NewProfileHandler(postService FeedLister, renderer *web.Renderer, log ports.Logger) *ProfileHandler {
	return &ProfileHandler{postService: postService, renderer: renderer, log: log}
}

func (h *ProfileHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	number := feed.ParsePage(r.URL.Query().Get("page"))
	h.log.Debug("Handling profile request", slog.String("username", username), slog.Int("page", number))

	author, page, err := h.postService.GetProfileFeed(r.Context(), username, number)
	if err != nil {
		switch {
		case errors.Is(err, custom_errors.ErrUserNotFound):
			h.renderer.NotFound(w, r)
		default:
			h.log.Error("Failed to build profile feed", slog.String("username", username), slog.String("error", err.Error()))
			h.renderer.ServerError(w, r)
		}
		return
	}

	h.renderer.Render(w, r, http.StatusOK, web.PageProfile, web.ProfileContent{Author: author, Page: page})
}
