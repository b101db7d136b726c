package appointment

import (
	"fmt"

	"github.com/BruksfildServices01/salon-manager/internal/httperr"
)

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusNoShow    Status = "no_show"
)

// Allowed transitions:
//
//	scheduled -> confirmed -> completed
//	scheduled -> cancelled | no_show
//	confirmed -> cancelled | no_show
var transitions = map[Status][]Status{
	StatusScheduled: {StatusConfirmed, StatusCancelled, StatusNoShow},
	StatusConfirmed: {StatusCompleted, StatusCancelled, StatusNoShow},
	StatusCompleted: {},
	StatusCancelled: {},
	StatusNoShow:    {},
}

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", httperr.ErrValidation(
			httperr.CodeInvalidStatus,
			fmt.Sprintf("Invalid status %q", s),
		)
	}
	return st, nil
}

func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// Occupies reports whether a booking in this status holds calendar time.
func (s Status) Occupies() bool {
	return s != StatusCancelled && s != StatusNoShow
}

func (s Status) Terminal() bool {
	return s.Valid() && len(transitions[s]) == 0
}

func CanTransition(from, to Status) error {
	for _, next := range transitions[from] {
		if next == to {
			return nil
		}
	}
	return httperr.ErrValidation(
		httperr.CodeInvalidTransition,
		fmt.Sprintf("Cannot change appointment from %s to %s", from, to),
	)
}

func InitialStatus() Status {
	return StatusScheduled
}
