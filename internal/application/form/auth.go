package form

import (
	"strings"

	auth_service "yatube/internal/domain/ports/input/auth"
)

type LoginValues struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

func ValidateLogin(raw LoginValues) (*LoginValues, FieldErrors) {
	raw.Username = strings.TrimSpace(raw.Username)
	if errs := check(raw); !errs.Empty() {
		return nil, errs
	}
	return &raw, nil
}

type SignupValues struct {
	FirstName string `form:"first_name" validate:"max=150"`
	LastName  string `form:"last_name" validate:"max=150"`
	Username  string `form:"username" validate:"required,max=150,username"`
	Email     string `form:"email" validate:"omitempty,email"`
	Password  string `form:"password" validate:"required,min=8,max=72"`
	Password2 string `form:"password2" validate:"required,eqfield=Password"`
}

func ValidateSignup(raw SignupValues) (*auth_service.SignupDTO, FieldErrors) {
	raw.FirstName = strings.TrimSpace(raw.FirstName)
	raw.LastName = strings.TrimSpace(raw.LastName)
	raw.Username = strings.TrimSpace(raw.Username)
	raw.Email = strings.TrimSpace(raw.Email)

	if errs := check(raw); !errs.Empty() {
		return nil, errs
	}
	return &auth_service.SignupDTO{
		Username:  raw.Username,
		FirstName: raw.FirstName,
		LastName:  raw.LastName,
		Email:     raw.Email,
		Password:  raw.Password,
	}, nil
}
