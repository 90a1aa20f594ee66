package group_service

import (
	"context"
	"errors"
	"log/slog"

	"yatube/internal/application/form"
	"yatube/internal/custom_errors"
	model "yatube/internal/domain/models"
	ports "yatube/internal/domain/ports/output"
	group_repository "yatube/internal/domain/ports/output/group"
)

type GroupService struct {
	groupRepo group_repository.Repository
	log       ports.Logger
}

func NewGroupService(groupRepo group_repository.Repository, log ports.Logger) *GroupService {
	return &GroupService{groupRepo: groupRepo, log: log}
}

// CreateGroup stores a new group. An empty slug is derived from the title.
func (s *GroupService) CreateGroup(ctx context.Context, group *model.CreateGroupDTO) (*model.Group, error) {
	dto := *group
	if dto.Slug == "" {
		dto.Slug = form.Slugify(dto.Title)
	}
	if dto.Slug == "" || dto.Title == "" {
		s.log.Debug("Cannot create group without title or slug", slog.String("title", dto.Title))
		return nil, custom_errors.ErrInvalidInput
	}

	created, err := s.groupRepo.Create(ctx, &dto)
	if err != nil {
		if errors.Is(err, custom_errors.ErrSlugTaken) {
			s.log.Debug("Group slug already taken", slog.String("slug", dto.Slug))
			return nil, custom_errors.ErrSlugTaken
		}
		s.log.Error("Failed to create group", slog.String("error", err.Error()), slog.String("slug", dto.Slug))
		return nil, custom_errors.ErrDatabaseQuery
	}

	s.log.Info("Group created", slog.Int64("id", created.ID), slog.String("slug", created.Slug))
	return created, nil
}
