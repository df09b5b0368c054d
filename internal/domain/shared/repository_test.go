package shared

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilter_Offset(t *testing.T) {
	tests := []struct {
		page, size, want int
	}{
		{1, 20, 0},
		{3, 20, 40},
		{0, 20, 0},
		{-5, 20, 0},
		{2, 0, 0},
		{math.MaxInt, 100, (MaxPage - 1) * 100},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Filter{Page: tt.page, PageSize: tt.size}.Offset(), "page %d size %d", tt.page, tt.size)
	}
}
