package group_repository

import (
	"context"

	model "yatube/internal/domain/models"
)

//go:generate mockery --name Repository --dir . --output ../../../../../mocks/group --outpkg mocks --filename GroupRepository.go
type Repository interface {
	Create(ctx context.Context, group *model.CreateGroupDTO) (*model.Group, error)
	GetByID(ctx context.Context, id int64) (*model.Group, error)
	GetBySlug(ctx context.Context, slug string) (*model.Group, error)
	GetByIDs(ctx context.Context, ids []int64) (map[int64]*model.Group, error)
	List(ctx context.Context) ([]*model.Group, error)
}
