package appointment

import "time"

type AvailabilityInput struct {
	Date       time.Time
	ResourceID *uint
	ServiceID  uint
}

type TimeSlot struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

// AvailableSlots generates the window's slots with the service duration and
// drops every one that collides with an occupying booking or a break, or
// would end after midnight.
// The result is chronological and has no duplicates.
func AvailableSlots(w Window, durationMinutes int, bookings []Booking) []TimeOfDay {
	out := make([]TimeOfDay, 0, SlotCount(w.Start, w.End, w.StepMinutes))
	if durationMinutes <= 0 {
		return out
	}

	for start := range Slots(w.Start, w.End, w.StepMinutes) {
		candidate := Interval{Start: start, End: start.Add(durationMinutes)}
		if !candidate.WithinDay() || Conflicts(candidate, bookings) || overlapsAny(candidate, w.Breaks) {
			continue
		}
		out = append(out, start)
	}
	return out
}

func overlapsAny(candidate Interval, blocks []Interval) bool {
	for _, b := range blocks {
		if candidate.Overlaps(b) {
			return true
		}
	}
	return false
}

func FormatSlots(slots []TimeOfDay) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.String())
	}
	return out
}

func SlotObjects(slots []TimeOfDay) []TimeSlot {
	out := make([]TimeSlot, 0, len(slots))
	for _, s := range slots {
		out = append(out, TimeSlot{Time: s.String(), Available: true})
	}
	return out
}
