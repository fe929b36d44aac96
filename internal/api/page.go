package api

import (
	"bytes"
	"encoding/json"
)

// Page is the backend's paged list shape
type Page[T any] struct {
	Content       []T   `json:"content"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Number        int   `json:"number"`
	Size          int   `json:"size"`
}

// UnmarshalJSON accepts either a page object or a bare array
func (p *Page[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return err
		}
		*p = Page[T]{
			Content:       items,
			TotalElements: int64(len(items)),
			TotalPages:    1,
			Size:          len(items),
		}
		return nil
	}

	var raw struct {
		Content       []T   `json:"content"`
		TotalElements int64 `json:"totalElements"`
		TotalPages    int   `json:"totalPages"`
		Number        int   `json:"number"`
		Size          int   `json:"size"`
	}
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return err
	}
	*p = Page[T]{
		Content:       raw.Content,
		TotalElements: raw.TotalElements,
		TotalPages:    raw.TotalPages,
		Number:        raw.Number,
		Size:          raw.Size,
	}
	return nil
}

// Items returns the page content, never nil
func (p *Page[T]) Items() []T {
	if p == nil || p.Content == nil {
		return []T{}
	}
	return p.Content
}
