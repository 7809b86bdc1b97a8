package response

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPaginated(t *testing.T) {
	tests := []struct {
		name string

		itemCount  int
		page       int
		pageSize   int
		totalItems int64

		wantTotalPages int64
	}{
		{
			name:       "even split",
			itemCount:  20,
			page:       1,
			pageSize:   20,
			totalItems: 40,

			wantTotalPages: 2,
		},
		{
			name:       "partial last page",
			itemCount:  1,
			page:       3,
			pageSize:   20,
			totalItems: 41,

			wantTotalPages: 3,
		},
		{
			name:       "no items",
			itemCount:  0,
			page:       1,
			pageSize:   20,
			totalItems: 0,

			wantTotalPages: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := make([]int, tt.itemCount)

			got := NewPaginated(items, tt.page, tt.pageSize, tt.totalItems)

			assert.Equal(t, tt.page, got.Page)
			assert.Equal(t, tt.pageSize, got.PageSize)
			assert.Equal(t, tt.totalItems, got.TotalItems)
			assert.Equal(t, tt.wantTotalPages, got.TotalPages)
			assert.Len(t, got.Items, tt.itemCount)
		})
	}
}
