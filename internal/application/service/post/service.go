package post_service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"yatube/internal/application/feed"
	"yatube/internal/custom_errors"
	model "yatube/internal/domain/models"
	ports "yatube/internal/domain/ports/output"
	group_repository "yatube/internal/domain/ports/output/group"
	post_repository "yatube/internal/domain/ports/output/post"
	user_repository "yatube/internal/domain/ports/output/user"
	"yatube/internal/infrastructure/outbound/repository/postgres"
)

type PostService struct {
	postRepo  post_repository.Repository
	groupRepo group_repository.Repository
	userRepo  user_repository.Repository
	uow       postgres.UnitOfWork
	log       ports.Logger
	metrics   ports.MetricsProvider
}

func NewPostService(
	postRepo post_repository.Repository,
	groupRepo group_repository.Repository,
	userRepo user_repository.Repository,
	uow postgres.UnitOfWork,
	log ports.Logger,
	metrics ports.MetricsProvider,
) *PostService {
	return &PostService{
		postRepo:  postRepo,
		groupRepo: groupRepo,
		userRepo:  userRepo,
		uow:       uow,
		log:       log,
		metrics:   metrics,
	}
}

func (s *PostService) rollback(ctx context.Context, tx postgres.Transaction) {
	rollbackErr := tx.Rollback(ctx)
	if rollbackErr == nil {
		return
	}
	if !strings.Contains(rollbackErr.Error(), "tx is closed") && !strings.Contains(rollbackErr.Error(), "commit unexpectedly resulted in rollback") {
		s.log.Error("Failed to rollback transaction", slog.String("error", rollbackErr.Error()))
	} else {
		s.log.Debug("Transaction already closed during rollback", slog.String("error", rollbackErr.Error()))
	}
}

func (s *PostService) commit(ctx context.Context, tx postgres.Transaction) error {
	err := tx.Commit(ctx)
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "commit unexpectedly resulted in rollback") {
		s.log.Warn("Transaction commit resulted in rollback", slog.String("error", err.Error()))
		return custom_errors.ErrDatabaseQuery
	}
	s.log.Error("Failed to commit transaction", slog.String("error", err.Error()))
	return custom_errors.ErrDatabaseQuery
}

func (s *PostService) checkGroup(ctx context.Context, groupRepo group_repository.Repository, groupID *int64) error {
	if groupID == nil {
		return nil
	}
	_, err := groupRepo.GetByID(ctx, *groupID)
	if err != nil {
		if errors.Is(err, custom_errors.ErrGroupNotFound) {
			s.log.Debug("Group not found for post", slog.Int64("group_id", *groupID))
			return custom_errors.ErrGroupNotFound
		}
		s.log.Error("Failed to get group for post", slog.String("error", err.Error()), slog.Int64("group_id", *groupID))
		return custom_errors.ErrDatabaseQuery
	}
	return nil
}

// detail resolves authors and groups for a batch of posts with one lookup each.
func (s *PostService) detail(ctx context.Context, posts []*model.Post) ([]*model.PostDetailed, error) {
	authorIDs := make([]int64, 0, len(posts))
	groupIDs := make([]int64, 0, len(posts))
	for _, post := range posts {
		authorIDs = append(authorIDs, post.AuthorID)
		if post.GroupID != nil {
			groupIDs = append(groupIDs, *post.GroupID)
		}
	}

	authors, err := s.userRepo.GetByIDs(ctx, authorIDs)
	if err != nil {
		s.log.Error("Failed to get authors", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}
	groups, err := s.groupRepo.GetByIDs(ctx, groupIDs)
	if err != nil {
		s.log.Error("Failed to get groups", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	result := make([]*model.PostDetailed, 0, len(posts))
	for _, post := range posts {
		author, ok := authors[post.AuthorID]
		if !ok {
			s.log.Error("Author of post is missing", slog.Int64("id", post.ID), slog.Int64("author_id", post.AuthorID))
			return nil, custom_errors.ErrUserNotFound
		}
		detailed := &model.PostDetailed{Post: post, Author: author}
		if post.GroupID != nil {
			detailed.Group = groups[*post.GroupID]
		}
		result = append(result, detailed)
	}
	return result, nil
}

func (s *PostService) ListPosts(ctx context.Context, filters model.PostFilters, page int) (*model.Page[*model.PostDetailed], error) {
	filters.Limit, filters.Offset = nil, nil

	total, err := s.postRepo.Count(ctx, filters)
	if err != nil {
		s.metrics.IncrementPostOperations("list", false)
		s.log.Error("Failed to count posts", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	window := feed.Locate(page, total, feed.PageSize)
	filters.Limit = &window.Limit
	filters.Offset = &window.Offset

	posts, err := s.postRepo.List(ctx, filters)
	if err != nil {
		s.metrics.IncrementPostOperations("list", false)
		s.log.Error("Failed to list posts", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	detailed, err := s.detail(ctx, posts)
	if err != nil {
		s.metrics.IncrementPostOperations("list", false)
		return nil, err
	}

	s.metrics.IncrementPostOperations("list", true)
	return feed.NewPage(detailed, window), nil
}

func (s *PostService) GetGroupFeed(ctx context.Context, slug string, page int) (*model.Group, *model.Page[*model.PostDetailed], error) {
	group, err := s.groupRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, custom_errors.ErrGroupNotFound) {
			s.log.Debug("Group not found", slog.String("slug", slug))
			return nil, nil, custom_errors.ErrGroupNotFound
		}
		s.log.Error("Failed to get group by slug", slog.String("error", err.Error()), slog.String("slug", slug))
		return nil, nil, custom_errors.ErrDatabaseQuery
	}

	posts, err := s.ListPosts(ctx, model.PostFilters{GroupID: &group.ID}, page)
	if err != nil {
		return nil, nil, err
	}
	return group, posts, nil
}

func (s *PostService) GetProfileFeed(ctx context.Context, username string, page int) (*model.User, *model.Page[*model.PostDetailed], error) {
	author, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, custom_errors.ErrUserNotFound) {
			s.log.Debug("Author not found", slog.String("username", username))
			return nil, nil, custom_errors.ErrUserNotFound
		}
		s.log.Error("Failed to get author by username", slog.String("error", err.Error()), slog.String("username", username))
		return nil, nil, custom_errors.ErrDatabaseQuery
	}

	posts, err := s.ListPosts(ctx, model.PostFilters{AuthorID: &author.ID}, page)
	if err != nil {
		return nil, nil, err
	}
	return author, posts, nil
}

func (s *PostService) GetPostByID(ctx context.Context, id int64) (*model.PostDetailed, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, custom_errors.ErrPostNotFound):
			s.log.Debug("Post not found", slog.Int64("id", id))
			return nil, custom_errors.ErrPostNotFound
		default:
			s.log.Error("Failed to get post by id",
				slog.String("error", err.Error()),
				slog.Int64("id", id))
			return nil, custom_errors.ErrDatabaseQuery
		}
	}

	author, err := s.userRepo.GetByID(ctx, post.AuthorID)
	if err != nil {
		switch {
		case errors.Is(err, custom_errors.ErrUserNotFound):
			s.log.Error("Author of post is missing", slog.Int64("id", id), slog.Int64("authorID", post.AuthorID))
			return nil, custom_errors.ErrUserNotFound
		default:
			s.log.Error("Failed to get author",
				slog.String("error", err.Error()),
				slog.Int64("authorID", post.AuthorID))
			return nil, custom_errors.ErrDatabaseQuery
		}
	}

	detailed := &model.PostDetailed{Post: post, Author: author}
	if post.GroupID != nil {
		group, err := s.groupRepo.GetByID(ctx, *post.GroupID)
		switch {
		case err == nil:
			detailed.Group = group
		case errors.Is(err, custom_errors.ErrGroupNotFound):
			s.log.Debug("Group of post not found", slog.Int64("id", id), slog.Int64("group_id", *post.GroupID))
		default:
			s.log.Error("Failed to get group", slog.String("error", err.Error()), slog.Int64("group_id", *post.GroupID))
			return nil, custom_errors.ErrDatabaseQuery
		}
	}
	return detailed, nil
}

func (s *PostService) CreatePost(ctx context.Context, authorID int64, input *model.PostInput) (result *model.Post, err error) {
	defer func() {
		s.metrics.IncrementPostOperations("create", err == nil)
	}()

	tx, err := s.uow.Begin(ctx)
	if err != nil {
		s.log.Error("Failed to start transaction", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	var txCommitted bool
	defer func() {
		if !txCommitted && tx != nil {
			s.rollback(ctx, tx)
		}
	}()

	if err = s.checkGroup(ctx, tx.GroupRepository(), input.GroupID); err != nil {
		return nil, err
	}

	created, err := tx.PostRepository().Create(ctx, &model.Post{
		AuthorID: authorID,
		GroupID:  input.GroupID,
		Text:     input.Text,
	})
	if err != nil {
		s.log.Error("Failed to create post", slog.String("error", err.Error()), slog.Int64("author_id", authorID))
		return nil, custom_errors.ErrDatabaseQuery
	}

	if err = s.commit(ctx, tx); err != nil {
		return nil, err
	}
	txCommitted = true

	s.log.Info("Post created", slog.Int64("id", created.ID), slog.Int64("author_id", authorID))
	return created, nil
}

func (s *PostService) UpdatePost(ctx context.Context, userID int64, id int64, input *model.PostInput) (result *model.Post, err error) {
	defer func() {
		s.metrics.IncrementPostOperations("update", err == nil)
	}()

	tx, err := s.uow.Begin(ctx)
	if err != nil {
		s.log.Error("Failed to start transaction", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	var txCommitted bool
	defer func() {
		if !txCommitted && tx != nil {
			s.rollback(ctx, tx)
		}
	}()

	postRepo := tx.PostRepository()

	existingPost, err := postRepo.GetByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, custom_errors.ErrPostNotFound) {
			s.log.Debug("Post not found for update", slog.Int64("id", id))
			return nil, custom_errors.ErrPostNotFound
		}
		s.log.Error("Failed to get post for update", slog.String("error", err.Error()), slog.Int64("id", id))
		return nil, custom_errors.ErrDatabaseQuery
	}
	if existingPost.AuthorID != userID {
		s.log.Debug("User is not author of post", slog.Int64("userID", userID), slog.Int64("authorID", existingPost.AuthorID))
		return nil, custom_errors.ErrForbidden
	}

	if err = s.checkGroup(ctx, tx.GroupRepository(), input.GroupID); err != nil {
		return nil, err
	}

	updated, err := postRepo.Update(ctx, id, input)
	if err != nil {
		if errors.Is(err, custom_errors.ErrPostNotFound) {
			s.log.Debug("Post not found for update", slog.Int64("id", id))
			return nil, custom_errors.ErrPostNotFound
		}
		s.log.Error("Failed to update post", slog.String("error", err.Error()), slog.Int64("id", id))
		return nil, custom_errors.ErrDatabaseQuery
	}

	if err = s.commit(ctx, tx); err != nil {
		return nil, err
	}
	txCommitted = true

	s.log.Info("Post updated", slog.Int64("id", id), slog.Int64("user_id", userID))
	return updated, nil
}

func (s *PostService) ListGroups(ctx context.Context) ([]*model.Group, error) {
	groups, err := s.groupRepo.List(ctx)
	if err != nil {
		s.log.Error("Failed to list groups", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}
	return groups, nil
}
