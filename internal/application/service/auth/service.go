package auth_service

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"yatube/internal/custom_errors"
	model "yatube/internal/domain/models"
	auth_service "yatube/internal/domain/ports/input/auth"
	ports "yatube/internal/domain/ports/output"
	user_repository "yatube/internal/domain/ports/output/user"
)

type AuthService struct {
	userRepo   user_repository.Repository
	log        ports.Logger
	metrics    ports.MetricsProvider
	bcryptCost int
}

func NewAuthService(userRepo user_repository.Repository, log ports.Logger, metrics ports.MetricsProvider, bcryptCost int) *AuthService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{
		userRepo:   userRepo,
		log:        log,
		metrics:    metrics,
		bcryptCost: bcryptCost,
	}
}

func (s *AuthService) Authenticate(ctx context.Context, username, password string) (user *model.User, err error) {
	defer func() {
		s.metrics.IncrementAuthOperations("login", err == nil)
	}()

	user, err = s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, custom_errors.ErrUserNotFound) {
			s.log.Debug("Login for unknown user", slog.String("username", username))
			return nil, custom_errors.ErrInvalidCredentials
		}
		s.log.Error("Failed to get user for login", slog.String("error", err.Error()), slog.String("username", username))
		return nil, custom_errors.ErrDatabaseQuery
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.log.Debug("Password mismatch", slog.String("username", username))
		return nil, custom_errors.ErrInvalidCredentials
	}

	s.log.Info("User logged in", slog.Int64("id", user.ID))
	return user, nil
}

func (s *AuthService) Register(ctx context.Context, signup *auth_service.SignupDTO) (user *model.User, err error) {
	defer func() {
		s.metrics.IncrementAuthOperations("signup", err == nil)
	}()

	hash, err := bcrypt.GenerateFromPassword([]byte(signup.Password), s.bcryptCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			s.log.Debug("Password too long to hash", slog.String("username", signup.Username))
			return nil, custom_errors.ErrPasswordTooLong
		}
		s.log.Error("Failed to hash password", slog.String("error", err.Error()))
		return nil, custom_errors.ErrInvalidInput
	}

	user, err = s.userRepo.Create(ctx, &model.CreateUserDTO{
		Username:     signup.Username,
		FirstName:    signup.FirstName,
		LastName:     signup.LastName,
		Email:        signup.Email,
		PasswordHash: string(hash),
	})
	if err != nil {
		if errors.Is(err, custom_errors.ErrUsernameTaken) {
			s.log.Debug("Username already taken", slog.String("username", signup.Username))
			return nil, custom_errors.ErrUsernameTaken
		}
		s.log.Error("Failed to create user", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	s.log.Info("User registered", slog.Int64("id", user.ID), slog.String("username", user.Username))
	return user, nil
}

func (s *AuthService) GetUser(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, custom_errors.ErrUserNotFound) {
			return nil, custom_errors.ErrUserNotFound
		}
		s.log.Error("Failed to get user", slog.String("error", err.Error()), slog.Int64("id", id))
		return nil, custom_errors.ErrDatabaseQuery
	}
	return user, nil
}
