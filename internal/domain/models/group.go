package model

import "strconv"

type Group struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

func (g *Group) String() string {
	return g.Title
}

type CreateGroupDTO struct {
	Title       string
	Slug        string
	Description string
}

func (g *Group) IDString() string {
	return strconv.FormatInt(g.ID, 10)
}
