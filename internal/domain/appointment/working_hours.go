package appointment

import (
	"fmt"

	"github.com/BruksfildServices01/salon-manager/internal/httperr"
	"github.com/BruksfildServices01/salon-manager/internal/models"
)

// Window is the working-hours frame availability is generated in.
// Breaks block time the same way occupying bookings do.
type Window struct {
	Start       TimeOfDay
	End         TimeOfDay
	StepMinutes int
	Breaks      []Interval
}

func NewWindow(start, end string, stepMinutes int) (Window, error) {
	s, err := ParseTimeOfDay(start)
	if err != nil {
		return Window{}, err
	}
	e, err := ParseTimeOfDay(end)
	if err != nil {
		return Window{}, err
	}
	w := Window{Start: s, End: e, StepMinutes: stepMinutes}
	if err := w.Validate(); err != nil {
		return Window{}, err
	}
	return w, nil
}

func (w Window) Validate() error {
	if w.StepMinutes <= 0 {
		return httperr.ErrValidation(httperr.CodeInvalidDuration, "Slot step must be positive")
	}
	if w.End <= w.Start {
		return httperr.ErrValidation(
			httperr.CodeInvalidTime,
			fmt.Sprintf("Working hours end %s must be after start %s", w.End, w.Start),
		)
	}
	return nil
}

// WindowFromWorkingHours narrows def to a professional's configured day.
// ok is false when the professional does not work that weekday.
func WindowFromWorkingHours(def Window, wh *models.WorkingHours) (w Window, ok bool, err error) {
	if wh == nil {
		return def, true, nil
	}
	if !wh.Active || wh.StartTime == "" || wh.EndTime == "" {
		return Window{}, false, nil
	}

	w, err = NewWindow(wh.StartTime, wh.EndTime, def.StepMinutes)
	if err != nil {
		return Window{}, false, err
	}

	if wh.LunchStart != "" && wh.LunchEnd != "" {
		ls, err := ParseTimeOfDay(wh.LunchStart)
		if err != nil {
			return Window{}, false, err
		}
		le, err := ParseTimeOfDay(wh.LunchEnd)
		if err != nil {
			return Window{}, false, err
		}
		if le > ls {
			w.Breaks = append(w.Breaks, Interval{Start: ls, End: le})
		}
	}

	return w, true, nil
}
