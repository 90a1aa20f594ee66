package memory

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"yatube/internal/custom_errors"
	model "yatube/internal/domain/models"
	ports "yatube/internal/domain/ports/output"
)

type GroupRepository struct {
	log    ports.Logger
	mu     sync.RWMutex
	groups map[int64]*model.Group
	slugs  map[string]int64
	nextID int64
}

func NewGroupRepository(log ports.Logger) *GroupRepository {
	return &GroupRepository{
		log:    log,
		groups: make(map[int64]*model.Group),
		slugs:  make(map[string]int64),
		nextID: 1,
	}
}

func (r *GroupRepository) Create(ctx context.Context, group *model.CreateGroupDTO) (*model.Group, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.slugs[group.Slug]; exists {
		r.log.Debug("Group slug already taken", slog.String("slug", group.Slug))
		return nil, custom_errors.ErrSlugTaken
	}

	newGroup := &model.Group{
		ID:          r.nextID,
		Title:       group.Title,
		Slug:        group.Slug,
		Description: group.Description,
	}
	r.nextID++

	r.groups[newGroup.ID] = newGroup
	r.slugs[newGroup.Slug] = newGroup.ID

	result := *newGroup
	return &result, nil
}

func (r *GroupRepository) GetByID(ctx context.Context, id int64) (*model.Group, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	group, exists := r.groups[id]
	if !exists {
		r.log.Debug("Group not found by id", slog.Int64("id", id))
		return nil, custom_errors.ErrGroupNotFound
	}
	result := *group
	return &result, nil
}

func (r *GroupRepository) GetBySlug(ctx context.Context, slug string) (*model.Group, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, exists := r.slugs[slug]
	if !exists {
		r.log.Debug("Group not found by slug", slog.String("slug", slug))
		return nil, custom_errors.ErrGroupNotFound
	}
	result := *r.groups[id]
	return &result, nil
}

func (r *GroupRepository) GetByIDs(ctx context.Context, ids []int64) (map[int64]*model.Group, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[int64]*model.Group, len(ids))
	for _, id := range ids {
		if group, exists := r.groups[id]; exists {
			g := *group
			result[id] = &g
		}
	}
	return result, nil
}

func (r *GroupRepository) List(ctx context.Context) ([]*model.Group, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.Group, 0, len(r.groups))
	for _, group := range r.groups {
		g := *group
		result = append(result, &g)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Title != result[j].Title {
			return result[i].Title < result[j].Title
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}
