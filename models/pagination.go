package models

import "math"

const MaxPageLimit = 100

type Page[T any] struct {
	Data       []T `json:"data"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// NormalizePage clamps page to >= 1 and limit to [1, MaxPageLimit]. Page is
// also capped so the offset (page-1)*limit fits in an int.
func NormalizePage(page, limit, defaultLimit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	page = min(page, math.MaxInt/limit)
	return page, limit
}

// NewPage wraps one page of data; total is the size of the whole filtered set.
func NewPage[T any](data []T, total, page, limit int) Page[T] {
	if data == nil {
		data = []T{}
	}
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return Page[T]{Data: data, Total: total, Page: page, Limit: limit, TotalPages: totalPages}
}

// Paginate slices an already filtered collection.
func Paginate[T any](items []T, page, limit int) Page[T] {
	total := len(items)
	start := (page - 1) * limit
	if start < 0 || start > total {
		start = total
	}
	end := min(start+limit, total)
	out := make([]T, end-start)
	copy(out, items[start:end])
	return NewPage(out, total, page, limit)
}
