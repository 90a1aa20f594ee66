package post_repository

import (
	"context"

	model "yatube/internal/domain/models"
)

//go:generate mockery --name Repository --dir . --output ../../../../../mocks/post --outpkg mocks --filename PostRepository.go
type Repository interface {
	Create(ctx context.Context, post *model.Post) (*model.Post, error)
	GetByID(ctx context.Context, id int64) (*model.Post, error)
	// GetByIDForUpdate locks the row until the surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id int64) (*model.Post, error)
	Update(ctx context.Context, id int64, update *model.PostInput) (*model.Post, error)
	// List returns posts ordered by created_at DESC, id DESC.
	List(ctx context.Context, filters model.PostFilters) ([]*model.Post, error)
	Count(ctx context.Context, filters model.PostFilters) (int, error)
}
