package model

import "time"

const postPreviewLength = 15

type Post struct {
	ID        int64     `json:"id"`
	AuthorID  int64     `json:"author_id"`
	GroupID   *int64    `json:"group_id,omitempty"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// String returns the first 15 characters of the text.
func (p *Post) String() string {
	r := []rune(p.Text)
	if len(r) > postPreviewLength {
		r = r[:postPreviewLength]
	}
	return string(r)
}

// InGroup reports whether the post belongs to the group with the given id.
func (p *Post) InGroup(groupID int64) bool {
	return p.GroupID != nil && *p.GroupID == groupID
}

type PostDetailed struct {
	Post   *Post  `json:"post"`
	Author *User  `json:"author,omitempty"`
	Group  *Group `json:"group,omitempty"`
}

// PostInput is a validated post submission. It never carries the author.
type PostInput struct {
	Text    string
	GroupID *int64
}

type PostFilters struct {
	AuthorID *int64
	GroupID  *int64
	Limit    *int
	Offset   *int
}

// ComparePosts is the feed order: created_at descending, then id descending.
func ComparePosts(a, b *Post) int {
	if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
		return c
	}
	switch {
	case a.ID > b.ID:
		return -1
	case a.ID < b.ID:
		return 1
	}
	return 0
}
