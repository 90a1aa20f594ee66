package auth_service

import (
	"context"

	model "yatube/internal/domain/models"
)

type SignupDTO struct {
	Username  string
	FirstName string
	LastName  string
	Email     string
	Password  string
}

type Service interface {
	Authenticate(ctx context.Context, username, password string) (*model.User, error)
	Register(ctx context.Context, signup *SignupDTO) (*model.User, error)
	GetUser(ctx context.Context, id int64) (*model.User, error)
}
