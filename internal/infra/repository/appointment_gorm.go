package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/salon-manager/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-manager/internal/dto"
	"github.com/BruksfildServices01/salon-manager/internal/httperr"
	"github.com/BruksfildServices01/salon-manager/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// Locking
// --------------------------------------------------

// WithinBookingLock opens a transaction and takes transaction-scoped
// advisory locks before calling fn. Admissions for one professional share
// the date lock and hold the professional lock exclusively; admissions
// without a professional hold the date lock exclusively.
func (r *AppointmentGormRepository) WithinBookingLock(
	ctx context.Context,
	scope domain.LockScope,
	fn func(tx domain.Tx) error,
) error {

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if scope.ResourceID == nil {
			if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", scope.DateKey()).Error; err != nil {
				return fmt.Errorf("lock %s: %w", scope.DateKey(), err)
			}
		} else {
			if err := tx.Exec("SELECT pg_advisory_xact_lock_shared(hashtext(?))", scope.DateKey()).Error; err != nil {
				return fmt.Errorf("lock %s: %w", scope.DateKey(), err)
			}
			if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", scope.ResourceKey()).Error; err != nil {
				return fmt.Errorf("lock %s: %w", scope.ResourceKey(), err)
			}
		}
		return fn(&AppointmentGormRepository{db: tx})
	})

	return translate(err, httperr.CodeNotFound, "Not found")
}

func (r *AppointmentGormRepository) WithinTx(
	ctx context.Context,
	fn func(tx domain.Tx) error,
) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&AppointmentGormRepository{db: tx})
	})
	return translate(err, httperr.CodeNotFound, "Not found")
}

// --------------------------------------------------
// Scheduler reads
// --------------------------------------------------

func (r *AppointmentGormRepository) FindOccupyingBookings(
	ctx context.Context,
	date time.Time,
	resourceID *uint,
) ([]domain.Booking, error) {

	q := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Select("id", "professional_id", "date", "start_minute", "duration_min", "status").
		Where("date = ? AND status NOT IN ?", domain.FormatDate(date), []string{
			string(domain.StatusCancelled),
			string(domain.StatusNoShow),
		})

	if resourceID != nil {
		q = q.Where("professional_id = ?", *resourceID)
	}

	var apps []models.Appointment
	if err := q.Order("start_minute ASC").Find(&apps).Error; err != nil {
		return nil, translate(err, "", "")
	}

	out := make([]domain.Booking, 0, len(apps))
	for i := range apps {
		out = append(out, domain.BookingFromModel(&apps[i]))
	}
	return out, nil
}

func (r *AppointmentGormRepository) FindServiceDuration(
	ctx context.Context,
	serviceID uint,
) (domain.ServiceDuration, error) {

	var svc models.Service
	err := r.db.WithContext(ctx).
		Select("id", "duration_min", "price").
		Where("id = ? AND active = ?", serviceID, true).
		First(&svc).Error
	if err != nil {
		return domain.ServiceDuration{}, translate(err, httperr.CodeServiceNotFound, "Service not found")
	}

	return domain.ServiceDuration{
		ServiceID: svc.ID,
		Minutes:   svc.DurationMin,
		Price:     svc.Price,
	}, nil
}

func (r *AppointmentGormRepository) GetWorkingHours(
	ctx context.Context,
	professionalID uint,
	weekday int,
) (*models.WorkingHours, error) {

	var wh models.WorkingHours
	err := r.db.WithContext(ctx).
		Where("professional_id = ? AND weekday = ?", professionalID, weekday).
		First(&wh).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translate(err, "", "")
	}
	return &wh, nil
}

func (r *AppointmentGormRepository) GetClient(ctx context.Context, id uint) (*models.Client, error) {
	var client models.Client
	if err := r.db.WithContext(ctx).First(&client, id).Error; err != nil {
		return nil, translate(err, httperr.CodeClientNotFound, "Client not found")
	}
	return &client, nil
}

func (r *AppointmentGormRepository) GetProfessional(ctx context.Context, id uint) (*models.Professional, error) {
	var p models.Professional
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, translate(err, httperr.CodeProfessionalMissing, "Professional not found")
	}
	return &p, nil
}

// --------------------------------------------------
// Appointment writes
// --------------------------------------------------

func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return translate(r.db.WithContext(ctx).Omit("Client", "Service", "Professional").Create(ap).Error, "", "")
}

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	id uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&ap, id).Error; err != nil {
		return nil, translate(err, httperr.CodeAppointmentNotFound, "Appointment not found")
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return translate(r.db.WithContext(ctx).Omit("Client", "Service", "Professional").Save(ap).Error, "", "")
}

// --------------------------------------------------
// Read projection
// --------------------------------------------------

type appointmentRow struct {
	ID               uint
	ClientID         uint
	ClientName       string
	ServiceID        uint
	ServiceName      string
	ProfessionalID   *uint
	ProfessionalName *string
	Date             time.Time
	StartMinute      int
	EndMinute        int
	DurationMin      int
	Status           string
	Price            float64
	Notes            string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (row appointmentRow) view() dto.AppointmentView {
	ap := models.Appointment{
		ID:             row.ID,
		ClientID:       row.ClientID,
		ServiceID:      row.ServiceID,
		ProfessionalID: row.ProfessionalID,
		Date:           row.Date,
		StartMinute:    row.StartMinute,
		EndMinute:      row.EndMinute,
		DurationMin:    row.DurationMin,
		Status:         row.Status,
		Price:          row.Price,
		Notes:          row.Notes,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
	professional := ""
	if row.ProfessionalName != nil {
		professional = *row.ProfessionalName
	}
	return domain.NewView(&ap, row.ClientName, row.ServiceName, professional)
}

const appointmentViewColumns = `a.id, a.client_id, c.name AS client_name,
	a.service_id, s.name AS service_name,
	a.professional_id, p.name AS professional_name,
	a.date, a.start_minute, a.end_minute, a.duration_min,
	a.status, a.price, a.notes, a.created_at, a.updated_at`

func (r *AppointmentGormRepository) viewQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("appointments AS a").
		Joins("JOIN clients c ON c.id = a.client_id").
		Joins("JOIN services s ON s.id = a.service_id").
		Joins("LEFT JOIN professionals p ON p.id = a.professional_id")
}

func (r *AppointmentGormRepository) GetAppointmentView(
	ctx context.Context,
	id uint,
) (*dto.AppointmentView, error) {

	var rows []appointmentRow
	if err := r.viewQuery(ctx).
		Select(appointmentViewColumns).
		Where("a.id = ?", id).
		Limit(1).
		Scan(&rows).Error; err != nil {
		return nil, translate(err, "", "")
	}
	if len(rows) == 0 {
		return nil, httperr.ErrNotFound(httperr.CodeAppointmentNotFound, "Appointment not found")
	}

	v := rows[0].view()
	return &v, nil
}

func (r *AppointmentGormRepository) ListAppointments(
	ctx context.Context,
	f dto.AppointmentFilter,
) ([]dto.AppointmentView, int64, error) {

	f.Normalize()

	q := r.viewQuery(ctx)
	if f.Date != nil {
		q = q.Where("a.date = ?", domain.FormatDate(*f.Date))
	}
	if f.From != nil {
		q = q.Where("a.date >= ?", domain.FormatDate(*f.From))
	}
	if f.To != nil {
		q = q.Where("a.date <= ?", domain.FormatDate(*f.To))
	}
	if f.ProfessionalID != nil {
		q = q.Where("a.professional_id = ?", *f.ProfessionalID)
	}
	if f.ClientID != nil {
		q = q.Where("a.client_id = ?", *f.ClientID)
	}
	if f.Status != "" {
		q = q.Where("a.status = ?", f.Status)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate(err, "", "")
	}

	var rows []appointmentRow
	if err := q.
		Select(appointmentViewColumns).
		Order("a.date DESC, a.start_minute ASC").
		Limit(f.Limit).
		Offset(f.Offset()).
		Scan(&rows).Error; err != nil {
		return nil, 0, translate(err, "", "")
	}

	out := make([]dto.AppointmentView, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.view())
	}
	return out, total, nil
}

func translate(err error, notFoundCode, notFoundMsg string) error {
	return httperr.FromStorage(err, notFoundCode, notFoundMsg)
}

var _ domain.Repository = (*AppointmentGormRepository)(nil)
