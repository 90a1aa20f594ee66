package form

import (
	"strings"

	model "yatube/internal/domain/models"
)

type GroupValues struct {
	Title       string `form:"title" validate:"required,max=200"`
	Slug        string `form:"slug" validate:"omitempty,max=50,slug"`
	Description string `form:"description"`
}

func ValidateGroup(raw GroupValues) (*model.CreateGroupDTO, FieldErrors) {
	raw.Title = strings.TrimSpace(raw.Title)
	raw.Slug = strings.TrimSpace(raw.Slug)
	raw.Description = strings.TrimSpace(raw.Description)

	errs := check(raw)
	if raw.Slug == "" && !errs.Has(FieldTitle) {
		raw.Slug = Slugify(raw.Title)
		if raw.Slug == "" {
			errs.Add(FieldSlug, "This title has no Latin letters or digits to build a slug from. Enter the slug explicitly.")
		}
	}
	if !errs.Empty() {
		return nil, errs
	}
	return &model.CreateGroupDTO{
		Title:       raw.Title,
		Slug:        raw.Slug,
		Description: raw.Description,
	}, nil
}
