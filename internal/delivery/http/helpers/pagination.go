package helpers

import (
	"net/http"
	"strconv"

	"conferencecentral/internal/domain"
)

// Conference queries default to pages of 20; anything above 100 is clamped
// so a single request cannot drag the whole table over the wire.
const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ParsePagination extracts page and page_size from the query string. Values
// that are missing, non-numeric, or below 1 fall back to the defaults rather
// than producing an error.
func ParsePagination(r *http.Request) domain.PaginationParams {
	query := r.URL.Query()
	return domain.PaginationParams{
		Page:     queryInt(query.Get("page"), DefaultPage, 0),
		PageSize: queryInt(query.Get("page_size"), DefaultPageSize, MaxPageSize),
	}
}

func queryInt(raw string, fallback, max int) int {
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return fallback
	}
	if max > 0 && v > max {
		return max
	}
	return v
}

// PaginationMeta accompanies paginated list responses.
// swagger:model PaginationMeta
type PaginationMeta struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewPaginationMeta derives the page count from the total. A zero pageSize
// yields zero TotalPages instead of dividing by zero.
func NewPaginationMeta(page, pageSize, total int) PaginationMeta {
	totalPages := 0
	if pageSize > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}
	return PaginationMeta{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}
