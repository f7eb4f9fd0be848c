package domain

import "fmt"

// Transition is a legal move out of a status together with the console action that triggers it.
type Transition struct {
	To     Status
	Action string
}

// transitions is the fulfillment state graph. Delivered and Cancelled are terminal.
var transitions = map[Status][]Transition{
	StatusPlaced: {
		{To: StatusDispatched, Action: "Dispatch"},
		{To: StatusCancelled, Action: "Cancel"},
	},
	StatusDispatched: {
		{To: StatusOutForDelivery, Action: "Mark out for delivery"},
		{To: StatusCancelled, Action: "Cancel"},
	},
	StatusOutForDelivery: {
		{To: StatusDelivered, Action: "Deliver"},
		{To: StatusCancelled, Action: "Cancel"},
	},
	StatusDelivered: nil,
	StatusCancelled: nil,
}

// NextTransitions returns the moves available from the given status.
func NextTransitions(from Status) []Transition {
	return append([]Transition(nil), transitions[from]...)
}

// IsTerminal reports whether no transition leaves the status.
func IsTerminal(s Status) bool {
	return len(transitions[s]) == 0
}

// ValidateTransition rejects any move that is not in the state graph.
func ValidateTransition(from, to Status) error {
	if _, ok := transitions[from]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, from)
	}
	if _, ok := transitions[to]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, to)
	}
	for _, t := range transitions[from] {
		if t.To == to {
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, from, to)
}
