package helpers

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"conferencecentral/internal/domain"
)

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  domain.PaginationParams
	}{
		{"defaults", "", domain.PaginationParams{Page: 1, PageSize: 20}},
		{"explicit values", "page=3&page_size=50", domain.PaginationParams{Page: 3, PageSize: 50}},
		{"page size clamped to the max", "page_size=5000", domain.PaginationParams{Page: 1, PageSize: 100}},
		{"garbage falls back", "page=abc&page_size=-1", domain.PaginationParams{Page: 1, PageSize: 20}},
		{"zero falls back", "page=0&page_size=0", domain.PaginationParams{Page: 1, PageSize: 20}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "http://test/conferences?"+tt.query, nil)
			assert.Equal(t, tt.want, ParsePagination(req))
		})
	}
}

func TestNewPaginationMeta(t *testing.T) {
	meta := NewPaginationMeta(2, 20, 45)
	assert.Equal(t, 3, meta.TotalPages, "45 items over pages of 20")
	assert.Equal(t, 45, meta.Total)

	meta = NewPaginationMeta(1, 0, 45)
	assert.Equal(t, 0, meta.TotalPages, "zero page size yields zero pages")
}
