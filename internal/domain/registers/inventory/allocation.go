package inventory

import (
	"cmp"
	"slices"
)

// AllocationStrategy sorts candidate buckets in consumption order.
type AllocationStrategy func(records []Record)

// LargestFirst consumes the biggest bucket first; ties break by location, then id.
func LargestFirst(records []Record) {
	slices.SortStableFunc(records, func(a, b Record) int {
		if c := cmp.Compare(b.Quantity, a.Quantity); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Location, b.Location); c != 0 {
			return c
		}
		return slices.Compare(a.ID[:], b.ID[:])
	})
}

// planAllocation greedily takes quantity from records in their given order.
// ok is false, and the plan empty, when the buckets hold less than quantity.
func planAllocation(records []Record, quantity int64) (plan []Allocation, available int64, ok bool) {
	for _, r := range records {
		if r.Quantity > 0 {
			available += r.Quantity
		}
	}
	if available < quantity {
		return nil, available, false
	}

	remaining := quantity
	for _, r := range records {
		if remaining == 0 {
			break
		}
		if r.Quantity <= 0 {
			continue
		}
		take := min(r.Quantity, remaining)
		plan = append(plan, Allocation{RecordID: r.ID, Location: r.Location, Quantity: take})
		remaining -= take
	}
	return plan, available, true
}
