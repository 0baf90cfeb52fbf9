package order

import (
	"strings"
)

// Status is an order lifecycle state.
type Status string

const (
	StatusPending    Status = "pending"
	StatusPicking    Status = "picking"
	StatusPacked     Status = "packed"
	StatusDispatched Status = "dispatched"
	StatusDelivered  Status = "delivered"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusReturned   Status = "returned"
)

// transitions is the adjacency table of the lifecycle.
var transitions = map[Status][]Status{
	StatusPending:    {StatusPicking},
	StatusPicking:    {StatusPacked},
	StatusPacked:     {StatusDispatched, StatusDelivered, StatusCancelled},
	StatusDispatched: {StatusDelivered, StatusCancelled},
	StatusDelivered:  {StatusCompleted, StatusReturned},
	StatusCompleted:  {StatusReturned},
	StatusCancelled:  {},
	StatusReturned:   {},
}

var aliases = map[string]Status{
	"confirmed":  StatusPicking,
	"processing": StatusPicking,
	"paid":       StatusPacked,
	"ready":      StatusPacked,
	"shipped":    StatusDispatched,
	"in_transit": StatusDispatched,
	"canceled":   StatusCancelled,
	"done":       StatusCompleted,
}

// ParseStatus normalizes a requested status, resolving aliases.
func ParseStatus(raw string) (Status, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if canonical, ok := aliases[s]; ok {
		return canonical, true
	}
	if _, ok := transitions[Status(s)]; ok {
		return Status(s), true
	}
	return "", false
}

// CanTransition reports whether from -> to is allowed. Same-state is always allowed.
func CanTransition(from, to Status) bool {
	if from == to {
		return true
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no transition leaves s.
func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// IsClosed reports whether the order no longer accepts fulfilment changes.
func (s Status) IsClosed() bool {
	return s == StatusCancelled || s == StatusReturned || s == StatusCompleted
}
