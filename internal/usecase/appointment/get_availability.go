package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/salon-manager/internal/domain/appointment"
)

type GetAvailability struct {
	repo   domain.Reader
	window domain.Window
}

// NewGetAvailability uses window for professionals without working hours
// and for queries that name no professional.
func NewGetAvailability(repo domain.Reader, window domain.Window) *GetAvailability {
	return &GetAvailability{repo: repo, window: window}
}

func (uc *GetAvailability) Execute(
	ctx context.Context,
	in domain.AvailabilityInput,
) ([]domain.TimeOfDay, error) {

	svc, err := uc.repo.FindServiceDuration(ctx, in.ServiceID)
	if err != nil {
		return nil, err
	}

	window := uc.window
	if in.ResourceID != nil {
		if _, err := uc.repo.GetProfessional(ctx, *in.ResourceID); err != nil {
			return nil, err
		}

		wh, err := uc.repo.GetWorkingHours(ctx, *in.ResourceID, int(in.Date.Weekday()))
		if err != nil {
			return nil, err
		}

		var working bool
		window, working, err = domain.WindowFromWorkingHours(uc.window, wh)
		if err != nil {
			return nil, err
		}
		if !working {
			return []domain.TimeOfDay{}, nil
		}
	}

	bookings, err := uc.repo.FindOccupyingBookings(ctx, in.Date, in.ResourceID)
	if err != nil {
		return nil, err
	}

	return domain.AvailableSlots(window, svc.Minutes, bookings), nil
}
