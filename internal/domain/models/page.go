package model

// Page is one slice of an ordered feed. Number is 1-indexed and always within [1, TotalPages].
type Page[T any] struct {
	Items      []T `json:"items"`
	Number     int `json:"number"`
	TotalPages int `json:"total_pages"`
	TotalItems int `json:"total_items"`
}

func (p *Page[T]) HasNext() bool {
	return p.Number < p.TotalPages
}

func (p *Page[T]) HasPrevious() bool {
	return p.Number > 1
}

func (p *Page[T]) NextNumber() int {
	if p.HasNext() {
		return p.Number + 1
	}
	return p.Number
}

func (p *Page[T]) PreviousNumber() int {
	if p.HasPrevious() {
		return p.Number - 1
	}
	return p.Number
}

// PageRange lists every page number, for paginator links.
func (p *Page[T]) PageRange() []int {
	r := make([]int, p.TotalPages)
	for i := range r {
		r[i] = i + 1
	}
	return r
}
