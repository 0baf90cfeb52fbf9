package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"backoffice/internal/core/id"
)

func rec(location string, qty int64) Record {
	return Record{ID: id.New(), ProductID: id.MustParse("018f0000-0000-7000-8000-000000000001"), Location: location, Quantity: qty}
}

func TestLargestFirst_TieBreakByLocation(t *testing.T) {
	records := []Record{rec("c", 5), rec("b", 10), rec("a", 5), rec("d", 1)}
	LargestFirst(records)

	var got []string
	for _, r := range records {
		got = append(got, r.Location)
	}
	assert.Equal(t, []string{"b", "a", "c", "d"}, got)
}

func TestPlanAllocation(t *testing.T) {
	tests := []struct {
		name          string
		buckets       []Record
		quantity      int64
		wantOK        bool
		wantAvailable int64
		wantTaken     []int64
	}{
		{
			name:          "single bucket covers request",
			buckets:       []Record{rec("main", 10), rec("back", 4)},
			quantity:      6,
			wantOK:        true,
			wantAvailable: 14,
			wantTaken:     []int64{6},
		},
		{
			name:          "spills into next bucket",
			buckets:       []Record{rec("main", 10), rec("back", 4), rec("van", 1)},
			quantity:      13,
			wantOK:        true,
			wantAvailable: 15,
			wantTaken:     []int64{10, 3},
		},
		{
			name:          "exact total",
			buckets:       []Record{rec("main", 2), rec("back", 1)},
			quantity:      3,
			wantOK:        true,
			wantAvailable: 3,
			wantTaken:     []int64{2, 1},
		},
		{
			name:          "shortage",
			buckets:       []Record{rec("main", 2), rec("back", 1)},
			quantity:      4,
			wantOK:        false,
			wantAvailable: 3,
		},
		{
			name:          "no stock",
			quantity:      1,
			wantOK:        false,
			wantAvailable: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, available, ok := planAllocation(tt.buckets, tt.quantity)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantAvailable, available)

			var taken []int64
			for _, a := range plan {
				taken = append(taken, a.Quantity)
			}
			assert.Equal(t, tt.wantTaken, taken)
		})
	}
}
