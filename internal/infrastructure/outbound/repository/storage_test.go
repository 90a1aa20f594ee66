package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	model "yatube/internal/domain/models"
	"yatube/internal/infrastructure/config"
	"yatube/internal/infrastructure/logger"
	"yatube/internal/infrastructure/outbound/repository"
)

func TestOpen_Memory(t *testing.T) {
	ctx := context.Background()
	storage, err := repository.Open(ctx, config.StorageMemory, config.Database{}, logger.New("test"), nil)
	require.NoError(t, err)
	defer storage.Close()

	user, err := storage.Users.Create(ctx, &model.CreateUserDTO{Username: "leo", PasswordHash: "hash"})
	require.NoError(t, err)

	tx, err := storage.UnitOfWork.Begin(ctx)
	require.NoError(t, err)
	created, err := tx.PostRepository().Create(ctx, &model.Post{AuthorID: user.ID, Text: "hello"})
	require.NoError(t, err)
	require.NoError(t, tx.Commit(ctx))

	got, err := storage.Posts.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Text)
}

func TestOpen_UnknownStorage(t *testing.T) {
	_, err := repository.Open(context.Background(), "sqlite", config.Database{}, logger.New("test"), nil)
	assert.Error(t, err)
}

func TestOpen_BadDatabaseURL(t *testing.T) {
	_, err := repository.Open(context.Background(), config.StoragePostgres, config.Database{URL: "mysql://u:p@localhost/db"}, logger.New("test"), nil)
	assert.Error(t, err)
}
