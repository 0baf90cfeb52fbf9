package domain

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListFilterClamp(t *testing.T) {
	tests := []struct {
		limit, offset         int
		wantLimit, wantOffset int
	}{
		{0, 0, DefaultListLimit, 0},
		{-3, -1, DefaultListLimit, 0},
		{MaxListLimit + 1, 10, DefaultListLimit, 10},
		{MaxListLimit, 0, MaxListLimit, 0},
		{20, 40, 20, 40},
	}
	for _, tt := range tests {
		f := ListFilter{Limit: tt.limit, Offset: tt.offset}
		f.Clamp()
		assert.Equal(t, tt.wantLimit, f.Limit)
		assert.Equal(t, tt.wantOffset, f.Offset)
	}
}

func TestMapList(t *testing.T) {
	res := ListResult[int]{Items: []int{1, 2}, TotalCount: 7, Limit: 2, Offset: 4}
	got := MapList(res, func(v *int) string { return strconv.Itoa(*v * 10) })

	assert.Equal(t, []string{"10", "20"}, got.Items)
	assert.Equal(t, int64(7), got.TotalCount)
	assert.Equal(t, 2, got.Limit)
	assert.Equal(t, 4, got.Offset)
}
