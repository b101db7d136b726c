package appointment

import (
	"context"

	"github.com/BruksfildServices01/salon-manager/internal/audit"
	domain "github.com/BruksfildServices01/salon-manager/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-manager/internal/dto"
	"github.com/BruksfildServices01/salon-manager/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	ClientID       uint
	ServiceID      uint
	ProfessionalID *uint

	Date  string
	Time  string
	Notes string

	ActorID *uint
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCreateAppointment(repo domain.Repository, audit *audit.Dispatcher) *CreateAppointment {
	return &CreateAppointment{repo: repo, audit: audit}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*dto.AppointmentView, error) {

	date, err := domain.ParseDate(in.Date)
	if err != nil {
		return nil, err
	}
	start, err := domain.ParseTimeOfDay(in.Time)
	if err != nil {
		return nil, err
	}

	if _, err := uc.repo.GetClient(ctx, in.ClientID); err != nil {
		return nil, err
	}
	if in.ProfessionalID != nil {
		if _, err := uc.repo.GetProfessional(ctx, *in.ProfessionalID); err != nil {
			return nil, err
		}
	}

	svc, err := uc.repo.FindServiceDuration(ctx, in.ServiceID)
	if err != nil {
		return nil, err
	}

	candidate := domain.CandidateSlot{
		ResourceID:      in.ProfessionalID,
		Date:            date,
		Start:           start,
		DurationMinutes: svc.Minutes,
	}

	ap := &models.Appointment{
		ClientID:       in.ClientID,
		ServiceID:      in.ServiceID,
		ProfessionalID: in.ProfessionalID,
		Date:           date,
		StartMinute:    int(start),
		EndMinute:      int(candidate.Interval().End),
		DurationMin:    svc.Minutes,
		Status:         string(domain.InitialStatus()),
		Price:          svc.Price,
		Notes:          in.Notes,
	}

	// --------------------------------------------------
	// Admission: read, check and insert under one lock
	// --------------------------------------------------
	scope := domain.LockScope{Date: date, ResourceID: in.ProfessionalID}
	err = uc.repo.WithinBookingLock(ctx, scope, func(tx domain.Tx) error {
		bookings, err := tx.FindOccupyingBookings(ctx, date, in.ProfessionalID)
		if err != nil {
			return err
		}
		if err := domain.Admit(candidate, bookings); err != nil {
			return err
		}
		return tx.CreateAppointment(ctx, ap)
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  in.ActorID,
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]any{
			"date": in.Date,
			"time": start.String(),
		},
	})

	return uc.repo.GetAppointmentView(ctx, ap.ID)
}
