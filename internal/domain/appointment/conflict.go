package appointment

import "github.com/BruksfildServices01/salon-manager/internal/httperr"

// Occupying keeps the bookings that hold calendar time.
func Occupying(bookings []Booking) []Booking {
	out := make([]Booking, 0, len(bookings))
	for _, b := range bookings {
		if b.Status.Occupies() {
			out = append(out, b)
		}
	}
	return out
}

// Conflicts reports whether candidate overlaps any occupying booking.
// Intervals that only touch at an endpoint do not conflict.
func Conflicts(candidate Interval, bookings []Booking) bool {
	for _, b := range bookings {
		if !b.Status.Occupies() {
			continue
		}
		if candidate.Overlaps(b.Interval()) {
			return true
		}
	}
	return false
}

func ErrScheduleConflict() error {
	return httperr.ErrConflict(httperr.CodeScheduleConflict, httperr.MsgScheduleConflict)
}

// Admit is the admission decision for a single proposed booking: nil to
// accept, a SCHEDULE_CONFLICT error to reject. A booking may not run past
// midnight. bookings must be the
// occupying set for the candidate's date and resource.
func Admit(candidate CandidateSlot, bookings []Booking) error {
	if candidate.DurationMinutes <= 0 {
		return httperr.ErrValidation(httperr.CodeInvalidDuration, "Duration must be positive")
	}
	if !candidate.Interval().WithinDay() {
		return httperr.ErrValidation(httperr.CodeInvalidTime, "Appointment must end by midnight")
	}
	if Conflicts(candidate.Interval(), bookings) {
		return ErrScheduleConflict()
	}
	return nil
}
