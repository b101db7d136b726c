package appointment

import "iter"

// Slots yields workStart, workStart+step, ... for every start strictly before
// workEnd. The last slot may run past workEnd when the window is not a
// multiple of step. Each call to the returned sequence starts over.
func Slots(workStart, workEnd TimeOfDay, stepMinutes int) iter.Seq[TimeOfDay] {
	return func(yield func(TimeOfDay) bool) {
		if stepMinutes <= 0 || workEnd <= workStart {
			return
		}
		for t := workStart; t < workEnd; t = t.Add(stepMinutes) {
			if !yield(t) {
				return
			}
		}
	}
}

func SlotCount(workStart, workEnd TimeOfDay, stepMinutes int) int {
	if stepMinutes <= 0 || workEnd <= workStart {
		return 0
	}
	span := int(workEnd - workStart)
	return (span + stepMinutes - 1) / stepMinutes
}
