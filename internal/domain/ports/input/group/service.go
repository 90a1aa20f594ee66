package group_service

import (
	"context"

	model "yatube/internal/domain/models"
)

type Service interface {
	CreateGroup(ctx context.Context, group *model.CreateGroupDTO) (*model.Group, error)
}
