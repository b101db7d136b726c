package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/salon-manager/internal/audit"
	domain "github.com/BruksfildServices01/salon-manager/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-manager/internal/dto"
)

// TransitionAppointment applies one lifecycle step (confirm, complete,
// cancel, no-show). Freeing a slot needs no admission check.
type TransitionAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	now   func() time.Time
}

func NewTransitionAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	now func() time.Time,
) *TransitionAppointment {
	if now == nil {
		now = time.Now
	}
	return &TransitionAppointment{repo: repo, audit: audit, now: now}
}

func (uc *TransitionAppointment) Execute(
	ctx context.Context,
	appointmentID uint,
	to domain.Status,
	actorID *uint,
) (*dto.AppointmentView, error) {

	var from domain.Status
	err := uc.repo.WithinTx(ctx, func(tx domain.Tx) error {
		ap, err := tx.GetAppointment(ctx, appointmentID)
		if err != nil {
			return err
		}
		from = domain.Status(ap.Status)

		if err := domain.Transition(ap, to, uc.now()); err != nil {
			return err
		}
		return tx.UpdateAppointment(ctx, ap)
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  actorID,
		Action:   "appointment_" + string(to),
		Entity:   "appointment",
		EntityID: &appointmentID,
		Metadata: map[string]string{"from": string(from), "to": string(to)},
	})

	return uc.repo.GetAppointmentView(ctx, appointmentID)
}
