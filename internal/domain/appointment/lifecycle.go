package appointment

import (
	"time"

	"github.com/BruksfildServices01/salon-manager/internal/models"
)

// Transition moves ap to status `to`, stamping the matching timestamp.
func Transition(ap *models.Appointment, to Status, now time.Time) error {
	if err := CanTransition(Status(ap.Status), to); err != nil {
		return err
	}

	ap.Status = string(to)
	switch to {
	case StatusConfirmed:
		ap.ConfirmedAt = &now
	case StatusCompleted:
		ap.CompletedAt = &now
	case StatusCancelled, StatusNoShow:
		ap.CancelledAt = &now
	}
	return nil
}
