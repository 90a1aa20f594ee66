package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"yatube/internal/custom_errors"
	"yatube/internal/infrastructure/config"
	"yatube/internal/infrastructure/logger"
	"yatube/internal/infrastructure/outbound/metrics/prometheus"
	"yatube/internal/infrastructure/outbound/repository"
)

func setupCommandsTest(t *testing.T) (*commands, *repository.Storage, *bytes.Buffer) {
	t.Helper()
	log := logger.New("test")
	storage, err := repository.Open(context.Background(), config.StorageMemory, config.Database{}, log, nil)
	require.NoError(t, err)
	out := &bytes.Buffer{}
	return newCommands(storage, bcrypt.MinCost, log, prometheus.NewPrometheusMetricsProvider(), out), storage, out
}

func TestCreateUser(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr error
		invalid bool
	}{
		{name: "valid", args: []string{"-username", "leo", "-password", "correct-horse", "-email", "leo@example.com"}},
		{name: "short password", args: []string{"-username", "leo", "-password", "short"}, invalid: true},
		{name: "missing username", args: []string{"-password", "correct-horse"}, invalid: true},
		{name: "bad username", args: []string{"-username", "leo tolstoy", "-password", "correct-horse"}, invalid: true},
		{name: "unknown flag", args: []string{"-nope"}, invalid: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmds, storage, out := setupCommandsTest(t)

			err := cmds.createUser(context.Background(), tt.args)
			if tt.invalid {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, out.String(), "created user leo")

			user, err := storage.Users.GetByUsername(context.Background(), "leo")
			require.NoError(t, err)
			assert.Equal(t, "leo@example.com", user.Email)
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("correct-horse")))
		})
	}
}

func TestCreateUser_Duplicate(t *testing.T) {
	cmds, _, _ := setupCommandsTest(t)
	args := []string{"-username", "leo", "-password", "correct-horse"}

	require.NoError(t, cmds.createUser(context.Background(), args))
	err := cmds.createUser(context.Background(), args)
	assert.ErrorIs(t, err, custom_errors.ErrUsernameTaken)
}

func TestCreateGroup(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantSlug string
		invalid  bool
	}{
		{name: "explicit slug", args: []string{"-title", "Cats", "-slug", "cats", "-description", "About cats"}, wantSlug: "cats"},
		{name: "derived slug", args: []string{"-title", "Lev Tolstoy"}, wantSlug: "lev-tolstoy"},
		{name: "missing title", args: []string{"-slug", "cats"}, invalid: true},
		{name: "bad slug", args: []string{"-title", "Cats", "-slug", "c a t s"}, invalid: true},
		{name: "title without latin letters", args: []string{"-title", "Котики"}, invalid: true},
		{name: "title without latin letters and explicit slug", args: []string{"-title", "Котики", "-slug", "kotiki"}, wantSlug: "kotiki"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmds, storage, out := setupCommandsTest(t)

			err := cmds.createGroup(context.Background(), tt.args)
			if tt.invalid {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, out.String(), "/group/"+tt.wantSlug+"/")

			_, err = storage.Groups.GetBySlug(context.Background(), tt.wantSlug)
			assert.NoError(t, err)
		})
	}
}

func TestCreateGroup_SlugTaken(t *testing.T) {
	cmds, _, _ := setupCommandsTest(t)
	args := []string{"-title", "Cats", "-slug", "cats"}

	require.NoError(t, cmds.createGroup(context.Background(), args))
	err := cmds.createGroup(context.Background(), args)
	assert.ErrorIs(t, err, custom_errors.ErrSlugTaken)
}

func TestCreateGroup_UnsluggableTitle(t *testing.T) {
	cmds, _, out := setupCommandsTest(t)

	err := cmds.createGroup(context.Background(), []string{"-title", "Котики"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "slug: ")
	assert.Contains(t, err.Error(), "Enter the slug explicitly")
	assert.Empty(t, out.String())
}

func TestCreateUser_PasswordTooLong(t *testing.T) {
	cmds, storage, _ := setupCommandsTest(t)

	err := cmds.createUser(context.Background(), []string{"-username", "leo", "-password", strings.Repeat("ж", 40)})
	assert.ErrorIs(t, err, custom_errors.ErrPasswordTooLong)

	_, err = storage.Users.GetByUsername(context.Background(), "leo")
	assert.ErrorIs(t, err, custom_errors.ErrUserNotFound)
}
