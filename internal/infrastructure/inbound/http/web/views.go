package web

import (
	"yatube/internal/application/form"
	model "yatube/internal/domain/models"
)

type FeedContent struct {
	Page *model.Page[*model.PostDetailed]
}

type GroupContent struct {
	Group *model.Group
	Page  *model.Page[*model.PostDetailed]
}

type ProfileContent struct {
	Author *model.User
	Page   *model.Page[*model.PostDetailed]
}

type PostDetailContent struct {
	Post    *model.PostDetailed
	CanEdit bool
}

type PostFormContent struct {
	IsEdit bool
	PostID int64
	Values form.PostValues
	Errors form.FieldErrors
	Groups []*model.Group
}

// Selected reports whether the group option should be preselected.
func (c PostFormContent) Selected(g *model.Group) bool {
	return c.Values.Group != "" && c.Values.Group == g.IDString()
}

type LoginContent struct {
	Values form.LoginValues
	Errors form.FieldErrors
	Next   string
}

type SignupContent struct {
	Values form.SignupValues
	Errors form.FieldErrors
}
