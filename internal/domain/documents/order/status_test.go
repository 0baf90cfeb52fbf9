package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to Status
		want     bool
	}{
		{StatusPending, StatusPicking, true},
		{StatusPicking, StatusPacked, true},
		{StatusPacked, StatusDispatched, true},
		{StatusPacked, StatusDelivered, true},
		{StatusPacked, StatusCancelled, true},
		{StatusDispatched, StatusDelivered, true},
		{StatusDispatched, StatusCancelled, true},
		{StatusDelivered, StatusCompleted, true},
		{StatusDelivered, StatusReturned, true},
		{StatusCompleted, StatusReturned, true},

		{StatusPending, StatusPacked, false},
		{StatusPending, StatusCancelled, false},
		{StatusPicking, StatusCancelled, false},
		{StatusCancelled, StatusPicking, false},
		{StatusReturned, StatusCompleted, false},
		{StatusCompleted, StatusDelivered, false},
		{StatusDelivered, StatusCancelled, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestCanTransition_SameStateAlwaysAllowed(t *testing.T) {
	for s := range transitions {
		assert.True(t, CanTransition(s, s), s)
	}
}

func TestParseStatus(t *testing.T) {
	tests := map[string]Status{
		"confirmed":   StatusPicking,
		"processing":  StatusPicking,
		"paid":        StatusPacked,
		"shipped":     StatusDispatched,
		"canceled":    StatusCancelled,
		" Cancelled ": StatusCancelled,
		"done":        StatusCompleted,
		"packed":      StatusPacked,
	}
	for raw, want := range tests {
		got, ok := ParseStatus(raw)
		assert.True(t, ok, raw)
		assert.Equal(t, want, got, raw)
	}

	_, ok := ParseStatus("lost")
	assert.False(t, ok)
}

func TestTerminalStatuses(t *testing.T) {
	assert.True(t, StatusCancelled.IsTerminal())
	assert.True(t, StatusReturned.IsTerminal())
	assert.False(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusCompleted.IsClosed())
	assert.False(t, StatusPacked.IsClosed())
}

func TestClampPicked(t *testing.T) {
	assert.Equal(t, int64(0), ClampPicked(-3, 5))
	assert.Equal(t, int64(3), ClampPicked(3, 5))
	assert.Equal(t, int64(5), ClampPicked(9, 5))
}

func TestItemFulfilledQuantity(t *testing.T) {
	assert.Equal(t, int64(4), Item{Quantity: 4}.FulfilledQuantity())
	assert.Equal(t, int64(2), Item{Quantity: 4, PickedQuantity: 2}.FulfilledQuantity())
}
