package post_service

import (
	"context"

	model "yatube/internal/domain/models"
)

type Service interface {
	ListPosts(ctx context.Context, filters model.PostFilters, page int) (*model.Page[*model.PostDetailed], error)
	GetGroupFeed(ctx context.Context, slug string, page int) (*model.Group, *model.Page[*model.PostDetailed], error)
	GetProfileFeed(ctx context.Context, username string, page int) (*model.User, *model.Page[*model.PostDetailed], error)
	GetPostByID(ctx context.Context, id int64) (*model.PostDetailed, error)
	CreatePost(ctx context.Context, authorID int64, input *model.PostInput) (*model.Post, error)
	UpdatePost(ctx context.Context, userID int64, id int64, input *model.PostInput) (*model.Post, error)
	ListGroups(ctx context.Context) ([]*model.Group, error)
}
