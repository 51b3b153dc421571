package schedule

import (
	"errors"
	"fmt"
)

// Status is the lifecycle state of a submitted schedule.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusPublished Status = "published"
	StatusCancelled Status = "cancelled"
	StatusFailed    Status = "failed"
)

// ErrIllegalTransition is returned by Transition for moves the table does not allow.
var ErrIllegalTransition = errors.New("illegal status transition")

var transitions = map[Status][]Status{
	StatusScheduled: {StatusPublished, StatusCancelled, StatusFailed},
	StatusFailed:    {StatusScheduled, StatusCancelled},
	StatusPublished: nil,
	StatusCancelled: nil,
}

func (s Status) String() string { return string(s) }

func (s Status) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return s.IsValid() && len(transitions[s]) == 0
}

// CanTransition reports whether from may move to to.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition returns to when the move is allowed.
func Transition(from, to Status) (Status, error) {
	if !CanTransition(from, to) {
		return from, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, from, to)
	}
	return to, nil
}
