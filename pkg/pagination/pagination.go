// Package pagination normalizes 1-based page/limit query inputs and builds
// the standard paginated response envelope.
package pagination

// DefaultLimit applies when the caller omits or botches the limit.
const DefaultLimit = 20

// MaxLimit caps page size.
const MaxLimit = 100

// Params are the normalized paging inputs.
type Params struct {
	Page  int
	Limit int
}

// Normalize clamps page to >= 1 and limit to [1, MaxLimit], substituting
// fallback (or DefaultLimit) when limit is unset.
func Normalize(page, limit, fallback int) Params {
	if fallback <= 0 || fallback > MaxLimit {
		fallback = DefaultLimit
	}
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = fallback
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Params{Page: page, Limit: limit}
}

// Offset converts the 1-based page into a row offset.
func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Page is the response envelope every list endpoint returns.
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// NewPage assembles a Page, computing totalPages = ceil(total/limit).
func NewPage[T any](items []T, params Params, total int) Page[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := 0
	if params.Limit > 0 {
		totalPages = (total + params.Limit - 1) / params.Limit
	}
	return Page[T]{
		Items:      items,
		Page:       params.Page,
		Limit:      params.Limit,
		Total:      total,
		TotalPages: totalPages,
	}
}
