package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/BruksfildServices01/salon-manager/internal/dto"
	"github.com/BruksfildServices01/salon-manager/internal/models"
)

// Reader is the read side the scheduler consumes.
type Reader interface {
	// FindOccupyingBookings returns non-cancelled, non-no-show bookings on
	// date. A nil resourceID means every booking of that date.
	FindOccupyingBookings(ctx context.Context, date time.Time, resourceID *uint) ([]Booking, error)

	FindServiceDuration(ctx context.Context, serviceID uint) (ServiceDuration, error)

	// GetWorkingHours returns nil, nil when the professional has no row for
	// weekday.
	GetWorkingHours(ctx context.Context, professionalID uint, weekday int) (*models.WorkingHours, error)

	GetClient(ctx context.Context, id uint) (*models.Client, error)
	GetProfessional(ctx context.Context, id uint) (*models.Professional, error)
}

// Tx is the repository bound to one unit of work.
type Tx interface {
	Reader

	CreateAppointment(ctx context.Context, ap *models.Appointment) error
	GetAppointment(ctx context.Context, id uint) (*models.Appointment, error)
	UpdateAppointment(ctx context.Context, ap *models.Appointment) error
}

type Repository interface {
	Tx

	// WithinBookingLock runs fn while no other admission for an overlapping
	// scope can run. The occupying-bookings read, the conflict check and the
	// write performed by fn are atomic with respect to each other.
	WithinBookingLock(ctx context.Context, scope LockScope, fn func(tx Tx) error) error

	// WithinTx runs fn in a plain transaction.
	WithinTx(ctx context.Context, fn func(tx Tx) error) error

	GetAppointmentView(ctx context.Context, id uint) (*dto.AppointmentView, error)
	ListAppointments(ctx context.Context, f dto.AppointmentFilter) ([]dto.AppointmentView, int64, error)
}

// LockScope identifies the calendar an admission touches. A nil ResourceID
// covers the whole date.
type LockScope struct {
	Date       time.Time
	ResourceID *uint
}

func (s LockScope) DateKey() string {
	return "appointments:" + FormatDate(s.Date)
}

func (s LockScope) ResourceKey() string {
	if s.ResourceID == nil {
		return s.DateKey()
	}
	return fmt.Sprintf("%s:professional:%d", s.DateKey(), *s.ResourceID)
}
