package appointment

import (
	"context"
	"fmt"

	"github.com/BruksfildServices01/salon-manager/internal/audit"
	domain "github.com/BruksfildServices01/salon-manager/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-manager/internal/dto"
	"github.com/BruksfildServices01/salon-manager/internal/httperr"
)

// RescheduleInput moves an appointment. A nil ProfessionalID keeps the
// current professional unless ClearProfessional is set; a zero ServiceID
// keeps the current service.
type RescheduleInput struct {
	AppointmentID     uint
	Date              string
	Time              string
	ProfessionalID    *uint
	ClearProfessional bool
	ServiceID         uint

	ActorID *uint
}

type RescheduleAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewRescheduleAppointment(repo domain.Repository, audit *audit.Dispatcher) *RescheduleAppointment {
	return &RescheduleAppointment{repo: repo, audit: audit}
}

func (uc *RescheduleAppointment) Execute(
	ctx context.Context,
	in RescheduleInput,
) (*dto.AppointmentView, error) {

	date, err := domain.ParseDate(in.Date)
	if err != nil {
		return nil, err
	}
	start, err := domain.ParseTimeOfDay(in.Time)
	if err != nil {
		return nil, err
	}

	current, err := uc.repo.GetAppointment(ctx, in.AppointmentID)
	if err != nil {
		return nil, err
	}

	professionalID := current.ProfessionalID
	switch {
	case in.ClearProfessional:
		professionalID = nil
	case in.ProfessionalID != nil:
		if _, err := uc.repo.GetProfessional(ctx, *in.ProfessionalID); err != nil {
			return nil, err
		}
		professionalID = in.ProfessionalID
	}

	serviceID := current.ServiceID
	if in.ServiceID != 0 {
		serviceID = in.ServiceID
	}
	svc, err := uc.repo.FindServiceDuration(ctx, serviceID)
	if err != nil {
		return nil, err
	}

	candidate := domain.CandidateSlot{
		ResourceID:      professionalID,
		Date:            date,
		Start:           start,
		DurationMinutes: svc.Minutes,
	}

	scope := domain.LockScope{Date: date, ResourceID: professionalID}
	err = uc.repo.WithinBookingLock(ctx, scope, func(tx domain.Tx) error {
		ap, err := tx.GetAppointment(ctx, in.AppointmentID)
		if err != nil {
			return err
		}
		if st := domain.Status(ap.Status); !st.Occupies() || st == domain.StatusCompleted {
			return httperr.ErrValidation(
				httperr.CodeInvalidStatus,
				fmt.Sprintf("Cannot reschedule a %s appointment", st),
			)
		}

		bookings, err := tx.FindOccupyingBookings(ctx, date, professionalID)
		if err != nil {
			return err
		}
		if err := domain.Admit(candidate, domain.Without(bookings, ap.ID)); err != nil {
			return err
		}

		ap.Date = date
		ap.StartMinute = int(start)
		ap.EndMinute = int(candidate.Interval().End)
		ap.DurationMin = svc.Minutes
		ap.ProfessionalID = professionalID
		if ap.ServiceID != serviceID {
			ap.ServiceID = serviceID
			ap.Price = svc.Price
		}
		return tx.UpdateAppointment(ctx, ap)
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  in.ActorID,
		Action:   "appointment_rescheduled",
		Entity:   "appointment",
		EntityID: &in.AppointmentID,
		Metadata: map[string]any{
			"from_date": domain.FormatDate(current.Date),
			"from_time": domain.TimeOfDay(current.StartMinute).String(),
			"date":      in.Date,
			"time":      start.String(),
		},
	})

	return uc.repo.GetAppointmentView(ctx, in.AppointmentID)
}
