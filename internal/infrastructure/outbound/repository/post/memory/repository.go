package memory

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"yatube/internal/custom_errors"
	model "yatube/internal/domain/models"
	ports "yatube/internal/domain/ports/output"
)

type PostRepository struct {
	log    ports.Logger
	mu     sync.RWMutex
	posts  map[int64]*model.Post
	nextID int64
}

func NewPostRepository(log ports.Logger) *PostRepository {
	return &PostRepository{
		log:    log,
		posts:  make(map[int64]*model.Post),
		nextID: 1,
	}
}

func copyPost(p *model.Post) *model.Post {
	c := *p
	if p.GroupID != nil {
		id := *p.GroupID
		c.GroupID = &id
	}
	return &c
}

// Create stores the post. A zero CreatedAt is set to the current time.
func (p *PostRepository) Create(ctx context.Context, post *model.Post) (*model.Post, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	createdAt := post.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	newPost := copyPost(post)
	newPost.ID = p.nextID
	newPost.CreatedAt = createdAt
	p.nextID++

	p.posts[newPost.ID] = newPost
	p.log.Debug("Post created in memory", slog.Int64("id", newPost.ID), slog.Int64("author_id", newPost.AuthorID))

	return copyPost(newPost), nil
}

func (p *PostRepository) GetByID(ctx context.Context, id int64) (*model.Post, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	post, exists := p.posts[id]
	if !exists {
		p.log.Debug("Post not found by id", slog.Int64("id", id))
		return nil, custom_errors.ErrPostNotFound
	}

	return copyPost(post), nil
}

func (p *PostRepository) GetByIDForUpdate(ctx context.Context, id int64) (*model.Post, error) {
	return p.GetByID(ctx, id)
}

func (p *PostRepository) Update(ctx context.Context, id int64, update *model.PostInput) (*model.Post, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	post, exists := p.posts[id]
	if !exists {
		return nil, custom_errors.ErrPostNotFound
	}

	post.Text = update.Text
	post.GroupID = nil
	if update.GroupID != nil {
		groupID := *update.GroupID
		post.GroupID = &groupID
	}

	return copyPost(post), nil
}

func (p *PostRepository) filter(filters model.PostFilters) []*model.Post {
	var filtered []*model.Post
	for _, post := range p.posts {
		if filters.AuthorID != nil && post.AuthorID != *filters.AuthorID {
			continue
		}
		if filters.GroupID != nil && !post.InGroup(*filters.GroupID) {
			continue
		}
		filtered = append(filtered, copyPost(post))
	}
	return filtered
}

func (p *PostRepository) List(ctx context.Context, filters model.PostFilters) ([]*model.Post, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	filteredPosts := p.filter(filters)
	slices.SortFunc(filteredPosts, model.ComparePosts)

	if filters.Offset != nil {
		offset := *filters.Offset
		if offset >= len(filteredPosts) {
			return []*model.Post{}, nil
		}
		filteredPosts = filteredPosts[offset:]
	}

	if filters.Limit != nil {
		limit := *filters.Limit
		if limit < len(filteredPosts) {
			filteredPosts = filteredPosts[:limit]
		}
	}

	if filteredPosts == nil {
		filteredPosts = []*model.Post{}
	}
	return filteredPosts, nil
}

func (p *PostRepository) Count(ctx context.Context, filters model.PostFilters) (int, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return len(p.filter(filters)), nil
}
