package dto

import "fmt"

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PageRequest selects one page of a listing. Page is zero based.
type PageRequest struct {
	Page int `json:"page"`
	Size int `json:"size"`
}

// Normalize applies the default size and rejects out of range values.
func (p PageRequest) Normalize() (PageRequest, error) {
	if p.Page < 0 {
		return p, fmt.Errorf("page must not be negative: %d", p.Page)
	}
	if p.Size == 0 {
		p.Size = DefaultPageSize
	}
	if p.Size < 0 || p.Size > MaxPageSize {
		return p, fmt.Errorf("size must be between 1 and %d: %d", MaxPageSize, p.Size)
	}
	return p, nil
}

func (p PageRequest) Offset() int {
	return p.Page * p.Size
}

type Page[T any] struct {
	Items   []T   `json:"items"`
	Total   int64 `json:"total"`
	Page    int   `json:"page"`
	Size    int   `json:"size"`
	HasNext bool  `json:"hasNext"`
}

func NewPage[T any](items []T, req PageRequest, total int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:   items,
		Total:   total,
		Page:    req.Page,
		Size:    req.Size,
		HasNext: int64(req.Offset()+len(items)) < total,
	}
}
