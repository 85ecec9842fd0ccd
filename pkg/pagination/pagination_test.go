package pagination

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		page     int
		limit    int
		fallback int
		want     Params
	}{
		{"defaults", 0, 0, 0, Params{Page: 1, Limit: DefaultLimit}},
		{"negative page", -3, 10, 20, Params{Page: 1, Limit: 10}},
		{"limit above cap", 2, 500, 20, Params{Page: 2, Limit: MaxLimit}},
		{"custom fallback", 1, 0, 25, Params{Page: 1, Limit: 25}},
		{"passthrough", 4, 50, 20, Params{Page: 4, Limit: 50}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Normalize(tt.page, tt.limit, tt.fallback))
		})
	}
}

func TestOffset(t *testing.T) {
	require.Equal(t, 0, Params{Page: 1, Limit: 20}.Offset())
	require.Equal(t, 40, Params{Page: 3, Limit: 20}.Offset())
}

func TestNewPageTotalPages(t *testing.T) {
	tests := []struct {
		total      int
		limit      int
		totalPages int
	}{
		{0, 20, 0},
		{1, 20, 1},
		{20, 20, 1},
		{21, 20, 2},
		{100, 7, 15},
	}
	for _, tt := range tests {
		p := NewPage([]int{}, Params{Page: 1, Limit: tt.limit}, tt.total)
		require.Equal(t, tt.totalPages, p.TotalPages, "total=%d limit=%d", tt.total, tt.limit)
	}
}

func TestNewPageNeverNilItems(t *testing.T) {
	p := NewPage[string](nil, Params{Page: 1, Limit: 10}, 0)
	require.NotNil(t, p.Items)
	require.Empty(t, p.Items)
}
