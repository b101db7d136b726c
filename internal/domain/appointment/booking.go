package appointment

import (
	"time"

	"github.com/BruksfildServices01/salon-manager/internal/models"
)

// Interval is a half-open [Start, End) range of minutes.
type Interval struct {
	Start TimeOfDay
	End   TimeOfDay
}

func (i Interval) Overlaps(o Interval) bool {
	return i.Start < o.End && i.End > o.Start
}

// WithinDay reports whether the interval fits one calendar day. Minute
// values never roll over into the next date.
func (i Interval) WithinDay() bool {
	return i.Start >= 0 && i.End <= MinutesPerDay
}

// Booking is one appointment as seen by the scheduler: ids only, no display data.
type Booking struct {
	ID              uint
	ResourceID      *uint
	Date            time.Time
	Start           TimeOfDay
	DurationMinutes int
	Status          Status
}

func (b Booking) End() TimeOfDay {
	return b.Start.Add(b.DurationMinutes)
}

func (b Booking) Interval() Interval {
	return Interval{Start: b.Start, End: b.End()}
}

// CandidateSlot is a prospective booking under evaluation.
type CandidateSlot struct {
	ResourceID      *uint
	Date            time.Time
	Start           TimeOfDay
	DurationMinutes int
}

func (c CandidateSlot) Interval() Interval {
	return Interval{Start: c.Start, End: c.Start.Add(c.DurationMinutes)}
}

// ServiceDuration is what the scheduler needs to know about a service.
type ServiceDuration struct {
	ServiceID uint
	Minutes   int
	Price     float64
}

func BookingFromModel(ap *models.Appointment) Booking {
	return Booking{
		ID:              ap.ID,
		ResourceID:      ap.ProfessionalID,
		Date:            DateOf(ap.Date),
		Start:           TimeOfDay(ap.StartMinute),
		DurationMinutes: ap.DurationMin,
		Status:          Status(ap.Status),
	}
}

// Without returns bookings minus the one with the given id. Rescheduling uses
// it so an appointment never conflicts with its own current slot.
func Without(bookings []Booking, id uint) []Booking {
	out := make([]Booking, 0, len(bookings))
	for _, b := range bookings {
		if b.ID != id {
			out = append(out, b)
		}
	}
	return out
}
