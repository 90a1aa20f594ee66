package memory

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"yatube/internal/custom_errors"
	model "yatube/internal/domain/models"
	ports "yatube/internal/domain/ports/output"
)

type UserRepository struct {
	log        ports.Logger
	mu         sync.RWMutex
	users      map[int64]*model.User
	byUsername map[string]int64
	nextID     int64
}

func NewUserRepository(log ports.Logger) *UserRepository {
	return &UserRepository{
		log:        log,
		users:      make(map[int64]*model.User),
		byUsername: make(map[string]int64),
		nextID:     1,
	}
}

func (r *UserRepository) Create(ctx context.Context, user *model.CreateUserDTO) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byUsername[user.Username]; exists {
		r.log.Debug("Username already taken", slog.String("username", user.Username))
		return nil, custom_errors.ErrUsernameTaken
	}

	newUser := &model.User{
		ID:           r.nextID,
		Username:     user.Username,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		CreatedAt:    time.Now(),
	}
	r.nextID++

	r.users[newUser.ID] = newUser
	r.byUsername[newUser.Username] = newUser.ID

	result := *newUser
	return &result, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, exists := r.users[id]
	if !exists {
		r.log.Debug("User not found by id", slog.Int64("id", id))
		return nil, custom_errors.ErrUserNotFound
	}
	result := *user
	return &result, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, exists := r.byUsername[username]
	if !exists {
		r.log.Debug("User not found by username", slog.String("username", username))
		return nil, custom_errors.ErrUserNotFound
	}
	result := *r.users[id]
	return &result, nil
}

func (r *UserRepository) GetByIDs(ctx context.Context, ids []int64) (map[int64]*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[int64]*model.User, len(ids))
	for _, id := range ids {
		if user, exists := r.users[id]; exists {
			u := *user
			result[id] = &u
		}
	}
	return result, nil
}
