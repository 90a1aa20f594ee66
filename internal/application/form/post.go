package form

import (
	"strconv"
	"strings"

	model "yatube/internal/domain/models"
)

// PostValues is a raw post submission exactly as typed by the user.
type PostValues struct {
	Text  string `form:"text"`
	Group string `form:"group"`
}

type postForm struct {
	Text  string `form:"text" validate:"required"`
	Group string `form:"group" validate:"omitempty,numeric"`
}

// PostValuesFrom prefills the form with an existing post.
func PostValuesFrom(p *model.Post) PostValues {
	v := PostValues{Text: p.Text}
	if p.GroupID != nil {
		v.Group = strconv.FormatInt(*p.GroupID, 10)
	}
	return v
}

// ValidatePost checks a submission against the groups that currently exist.
// Exactly one of the results is non-nil.
func ValidatePost(raw PostValues, groups []*model.Group) (*model.PostInput, FieldErrors) {
	f := postForm{
		Text:  strings.TrimSpace(raw.Text),
		Group: strings.TrimSpace(raw.Group),
	}

	errs := check(f)

	var groupID *int64
	if f.Group != "" && !errs.Has(FieldGroup) {
		id, err := strconv.ParseInt(f.Group, 10, 64)
		if err != nil || !hasGroup(groups, id) {
			errs.Add(FieldGroup, "Select a valid choice. That choice is not one of the available choices.")
		} else {
			groupID = &id
		}
	}

	if !errs.Empty() {
		return nil, errs
	}
	return &model.PostInput{Text: f.Text, GroupID: groupID}, nil
}

func hasGroup(groups []*model.Group, id int64) bool {
	for _, g := range groups {
		if g.ID == id {
			return true
		}
	}
	return false
}
