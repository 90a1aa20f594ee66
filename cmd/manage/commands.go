package main

import (
	"context"
	"flag"
	"fmt"
	"io"

	"yatube/internal/application/form"
	auth_service "yatube/internal/application/service/auth"
	group_service "yatube/internal/application/service/group"
	ports "yatube/internal/domain/ports/output"
	"yatube/internal/infrastructure/outbound/repository"
)

type commands struct {
	auth   *auth_service.AuthService
	groups *group_service.GroupService
	out    io.Writer
}

func newCommands(storage *repository.Storage, bcryptCost int, log ports.Logger, metrics ports.MetricsProvider, out io.Writer) *commands {
	return &commands{
		auth:   auth_service.NewAuthService(storage.Users, log, metrics, bcryptCost),
		groups: group_service.NewGroupService(storage.Groups, log),
		out:    out,
	}
}

func newFlagSet(name string) *flag.FlagSet {
	return flag.NewFlagSet(name, flag.ContinueOnError)
}

func (c *commands) createUser(ctx context.Context, args []string) error {
	fs := newFlagSet("create-user")
	var values form.SignupValues
	fs.StringVar(&values.Username, "username", "", "login name")
	fs.StringVar(&values.Password, "password", "", "password, at least 8 characters")
	fs.StringVar(&values.Email, "email", "", "email address")
	fs.StringVar(&values.FirstName, "first-name", "", "first name")
	fs.StringVar(&values.LastName, "last-name", "", "last name")
	if err := fs.Parse(args); err != nil {
		return err
	}
	values.Password2 = values.Password

	signup, errs := form.ValidateSignup(values)
	if errs != nil {
		return fmt.Errorf("invalid user: %w", errs)
	}

	user, err := c.auth.Register(ctx, signup)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "created user %s (id %d)\n", user.Username, user.ID)
	return nil
}

func (c *commands) createGroup(ctx context.Context, args []string) error {
	fs := newFlagSet("create-group")
	var values form.GroupValues
	fs.StringVar(&values.Title, "title", "", "group title")
	fs.StringVar(&values.Slug, "slug", "", "URL slug, derived from the title when empty")
	fs.StringVar(&values.Description, "description", "", "group description")
	if err := fs.Parse(args); err != nil {
		return err
	}

	dto, errs := form.ValidateGroup(values)
	if errs != nil {
		return fmt.Errorf("invalid group: %w", errs)
	}

	group, err := c.groups.CreateGroup(ctx, dto)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "created group %s at /group/%s/ (id %d)\n", group.Title, group.Slug, group.ID)
	return nil
}
