package post_repository_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yatube/internal/application/feed"
	"yatube/internal/custom_errors"
	model "yatube/internal/domain/models"
	post_repository "yatube/internal/domain/ports/output/post"
	"yatube/internal/infrastructure/logger"
	"yatube/internal/infrastructure/outbound/repository/post/memory"
)

func int64Ptr(v int64) *int64 { return &v }
func intPtr(v int) *int       { return &v }

func setupPostTest(t *testing.T) (post_repository.Repository, func()) {
	log := logger.New("test")
	repo := memory.NewPostRepository(log)
	return repo, func() {}
}

func seedPosts(t *testing.T, repo post_repository.Repository) []*model.Post {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	seed := []*model.Post{
		{AuthorID: 1, Text: "first", GroupID: int64Ptr(1), CreatedAt: base},
		{AuthorID: 2, Text: "second", CreatedAt: base.Add(time.Minute)},
		{AuthorID: 1, Text: "third", GroupID: int64Ptr(2), CreatedAt: base.Add(2 * time.Minute)},
		{AuthorID: 1, Text: "fourth", GroupID: int64Ptr(1), CreatedAt: base.Add(2 * time.Minute)},
	}
	created := make([]*model.Post, 0, len(seed))
	for _, p := range seed {
		c, err := repo.Create(context.Background(), p)
		require.NoError(t, err)
		created = append(created, c)
	}
	return created
}

func TestPostRepository_Create(t *testing.T) {
	repo, cleanup := setupPostTest(t)
	defer cleanup()

	tests := []struct {
		name string
		post *model.Post
	}{
		{
			name: "without group",
			post: &model.Post{AuthorID: 1, Text: "hello"},
		},
		{
			name: "with group",
			post: &model.Post{AuthorID: 1, Text: "hello", GroupID: int64Ptr(3)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.Create(context.Background(), tt.post)
			require.NoError(t, err)
			assert.NotZero(t, got.ID)
			assert.False(t, got.CreatedAt.IsZero())
			assert.Equal(t, tt.post.Text, got.Text)
			assert.Equal(t, tt.post.GroupID, got.GroupID)

			stored, err := repo.GetByID(context.Background(), got.ID)
			require.NoError(t, err)
			assert.Equal(t, got, stored)
		})
	}
}

func TestPostRepository_GetByID(t *testing.T) {
	repo, cleanup := setupPostTest(t)
	defer cleanup()
	posts := seedPosts(t, repo)

	tests := []struct {
		name    string
		id      int64
		wantErr error
	}{
		{name: "existing post", id: posts[0].ID},
		{name: "missing post", id: 999, wantErr: custom_errors.ErrPostNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.GetByIDForUpdate(context.Background(), tt.id)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.id, got.ID)
		})
	}
}

func TestPostRepository_Update(t *testing.T) {
	repo, cleanup := setupPostTest(t)
	defer cleanup()
	posts := seedPosts(t, repo)

	updated, err := repo.Update(context.Background(), posts[0].ID, &model.PostInput{Text: "edited"})
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Text)
	assert.Nil(t, updated.GroupID)
	assert.Equal(t, posts[0].AuthorID, updated.AuthorID)
	assert.Equal(t, posts[0].CreatedAt, updated.CreatedAt)

	updated, err = repo.Update(context.Background(), posts[1].ID, &model.PostInput{Text: "moved", GroupID: int64Ptr(2)})
	require.NoError(t, err)
	assert.Equal(t, int64Ptr(2), updated.GroupID)

	_, err = repo.Update(context.Background(), 999, &model.PostInput{Text: "x"})
	assert.ErrorIs(t, err, custom_errors.ErrPostNotFound)
}

func TestPostRepository_List(t *testing.T) {
	repo, cleanup := setupPostTest(t)
	defer cleanup()
	posts := seedPosts(t, repo)

	tests := []struct {
		name    string
		filters model.PostFilters
		wantIDs []int64
		total   int
	}{
		{
			name:    "all posts newest first, ties by id",
			filters: model.PostFilters{},
			wantIDs: []int64{posts[3].ID, posts[2].ID, posts[1].ID, posts[0].ID},
			total:   4,
		},
		{
			name:    "by author",
			filters: model.PostFilters{AuthorID: int64Ptr(1)},
			wantIDs: []int64{posts[3].ID, posts[2].ID, posts[0].ID},
			total:   3,
		},
		{
			name:    "by group",
			filters: model.PostFilters{GroupID: int64Ptr(1)},
			wantIDs: []int64{posts[3].ID, posts[0].ID},
			total:   2,
		},
		{
			name:    "limit and offset",
			filters: model.PostFilters{Limit: intPtr(2), Offset: intPtr(1)},
			wantIDs: []int64{posts[2].ID, posts[1].ID},
			total:   4,
		},
		{
			name:    "offset past end",
			filters: model.PostFilters{Offset: intPtr(10)},
			wantIDs: []int64{},
			total:   4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.List(context.Background(), tt.filters)
			require.NoError(t, err)

			ids := make([]int64, 0, len(got))
			for _, p := range got {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)

			total, err := repo.Count(context.Background(), tt.filters)
			require.NoError(t, err)
			assert.Equal(t, tt.total, total)
		})
	}
}

func TestPostRepository_ListAgreesWithPaginate(t *testing.T) {
	repo, cleanup := setupPostTest(t)
	defer cleanup()

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	created := make([]*model.Post, 0, 23)
	for i := 0; i < 23; i++ {
		// every third post shares its timestamp with the previous one
		at := base.Add(time.Duration(i-i/3) * time.Minute)
		p, err := repo.Create(context.Background(), &model.Post{AuthorID: int64(i%2 + 1), Text: "post", CreatedAt: at})
		require.NoError(t, err)
		created = append(created, p)
	}

	for _, number := range []int{0, 1, 2, 3, 99} {
		t.Run(fmt.Sprintf("page %d", number), func(t *testing.T) {
			total, err := repo.Count(context.Background(), model.PostFilters{})
			require.NoError(t, err)

			w := feed.Locate(number, total, feed.PageSize)
			got, err := repo.List(context.Background(), model.PostFilters{Limit: intPtr(w.Limit), Offset: intPtr(w.Offset)})
			require.NoError(t, err)

			want := feed.Paginate(created, number, feed.PageSize)
			require.Len(t, got, len(want.Items))
			for i := range got {
				assert.Equal(t, want.Items[i].ID, got[i].ID)
			}
			assert.Equal(t, want.Number, w.Number)
			assert.Equal(t, want.TotalPages, w.TotalPages)
		})
	}
}
