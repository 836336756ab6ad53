package domain

import (
	"net/url"
	"strconv"
)

// PageSize is the fixed number of rows requested per admin list page.
const PageSize = 10

// PageRequest is the paging window sent to a list endpoint.
type PageRequest struct {
	Page  int
	Limit int
}

// NewPageRequest builds a request for the given page using the fixed page size.
func NewPageRequest(page int) PageRequest {
	return PageRequest{Page: page, Limit: PageSize}.Normalize()
}

// Normalize clamps the page to 1 and falls back to PageSize for a missing limit.
func (r PageRequest) Normalize() PageRequest {
	normalized := r
	if normalized.Page < 1 {
		normalized.Page = 1
	}
	if normalized.Limit <= 0 {
		normalized.Limit = PageSize
	}
	return normalized
}

// Next returns the request for the following page.
func (r PageRequest) Next() PageRequest {
	normalized := r.Normalize()
	normalized.Page++
	return normalized
}

// Previous returns the request for the preceding page, never going below page 1.
func (r PageRequest) Previous() PageRequest {
	normalized := r.Normalize()
	normalized.Page--
	return normalized.Normalize()
}

// ToURLValues returns the query parameters understood by the admin list endpoints.
func (r PageRequest) ToURLValues() url.Values {
	normalized := r.Normalize()
	values := url.Values{}
	values.Set("page", strconv.Itoa(normalized.Page))
	values.Set("limit", strconv.Itoa(normalized.Limit))
	return values
}

// Page is the paginated collection envelope returned by list endpoints.
type Page[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// HasMore reports whether rows exist beyond the given page.
func HasMore(page, limit, total int) bool {
	return page*limit < total
}
