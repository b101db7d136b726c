package repository

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	domain "github.com/BruksfildServices01/salon-manager/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-manager/internal/dto"
	"github.com/BruksfildServices01/salon-manager/internal/httperr"
	"github.com/BruksfildServices01/salon-manager/internal/models"
)

// AppointmentMemoryRepository keeps everything in process memory. It backs
// the fixture mode used when no database is configured, and the tests.
//
// Writes are not rolled back when fn fails: callers insert or update as the
// last step of a unit of work.
type AppointmentMemoryRepository struct {
	now func() time.Time

	mu            sync.RWMutex
	clients       map[uint]models.Client
	services      map[uint]models.Service
	professionals map[uint]models.Professional
	workingHours  map[string]models.WorkingHours
	appointments  map[uint]models.Appointment
	nextID        map[string]uint

	lockMu        sync.Mutex
	dateLocks     map[string]*sync.RWMutex
	resourceLocks map[string]*sync.Mutex

	// txMu serializes read-modify-write units of work, standing in for the
	// row locks Postgres takes with SELECT ... FOR UPDATE. It is always
	// acquired after the booking locks.
	txMu sync.Mutex
}

func NewAppointmentMemoryRepository(now func() time.Time) *AppointmentMemoryRepository {
	if now == nil {
		now = time.Now
	}
	return &AppointmentMemoryRepository{
		now:           now,
		clients:       map[uint]models.Client{},
		services:      map[uint]models.Service{},
		professionals: map[uint]models.Professional{},
		workingHours:  map[string]models.WorkingHours{},
		appointments:  map[uint]models.Appointment{},
		nextID:        map[string]uint{},
		dateLocks:     map[string]*sync.RWMutex{},
		resourceLocks: map[string]*sync.Mutex{},
	}
}

// --------------------------------------------------
// Fixtures
// --------------------------------------------------

func (r *AppointmentMemoryRepository) AddClient(c models.Client) models.Client {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.ID = r.assignID("clients", c.ID)
	c.CreatedAt, c.UpdatedAt = r.now(), r.now()
	r.clients[c.ID] = c
	return c
}

func (r *AppointmentMemoryRepository) AddService(s models.Service) models.Service {
	r.mu.Lock()
	defer r.mu.Unlock()
	s.ID = r.assignID("services", s.ID)
	s.CreatedAt, s.UpdatedAt = r.now(), r.now()
	r.services[s.ID] = s
	return s
}

func (r *AppointmentMemoryRepository) AddProfessional(p models.Professional) models.Professional {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = r.assignID("professionals", p.ID)
	p.CreatedAt, p.UpdatedAt = r.now(), r.now()
	r.professionals[p.ID] = p
	return p
}

func (r *AppointmentMemoryRepository) SetWorkingHours(wh models.WorkingHours) {
	r.mu.Lock()
	defer r.mu.Unlock()
	wh.ID = r.assignID("working_hours", wh.ID)
	r.workingHours[workingHoursKey(wh.ProfessionalID, wh.Weekday)] = wh
}

// Seed loads the demo catalogue served when running without a database.
func (r *AppointmentMemoryRepository) Seed() {
	r.AddProfessional(models.Professional{Name: "Ana Souza", Specialty: "Hair", Active: true})
	r.AddProfessional(models.Professional{Name: "Carla Lima", Specialty: "Nails", Active: true})

	r.AddService(models.Service{Name: "Haircut", Category: "hair", DurationMin: 30, Price: 50, Active: true})
	r.AddService(models.Service{Name: "Coloring", Category: "hair", DurationMin: 90, Price: 180, Active: true})
	r.AddService(models.Service{Name: "Manicure", Category: "nails", DurationMin: 45, Price: 40, Active: true})

	r.AddClient(models.Client{Name: "Maria Silva", Phone: "11999990001"})
	r.AddClient(models.Client{Name: "Joana Costa", Phone: "11999990002"})
}

func (r *AppointmentMemoryRepository) assignID(table string, id uint) uint {
	if id == 0 {
		r.nextID[table]++
		return r.nextID[table]
	}
	if id > r.nextID[table] {
		r.nextID[table] = id
	}
	return id
}

func workingHoursKey(professionalID uint, weekday int) string {
	return fmt.Sprintf("%d:%d", professionalID, weekday)
}

// --------------------------------------------------
// Locking
// --------------------------------------------------

func (r *AppointmentMemoryRepository) dateLock(key string) *sync.RWMutex {
	r.lockMu.Lock()
	defer r.lockMu.Unlock()
	l, ok := r.dateLocks[key]
	if !ok {
		l = &sync.RWMutex{}
		r.dateLocks[key] = l
	}
	return l
}

func (r *AppointmentMemoryRepository) resourceLock(key string) *sync.Mutex {
	r.lockMu.Lock()
	defer r.lockMu.Unlock()
	l, ok := r.resourceLocks[key]
	if !ok {
		l = &sync.Mutex{}
		r.resourceLocks[key] = l
	}
	return l
}

// WithinBookingLock takes the same lock pair, in the same order, as the
// Postgres advisory locks: the date lock (shared when a professional is
// given) and then the professional lock.
func (r *AppointmentMemoryRepository) WithinBookingLock(
	ctx context.Context,
	scope domain.LockScope,
	fn func(tx domain.Tx) error,
) error {

	if err := ctx.Err(); err != nil {
		return httperr.ErrUnavailable(err)
	}

	date := r.dateLock(scope.DateKey())
	if scope.ResourceID == nil {
		date.Lock()
		defer date.Unlock()
	} else {
		date.RLock()
		defer date.RUnlock()

		res := r.resourceLock(scope.ResourceKey())
		res.Lock()
		defer res.Unlock()
	}

	r.txMu.Lock()
	defer r.txMu.Unlock()
	return fn(r)
}

// WithinTx runs fn exclusively with every other unit of work, so a status
// change cannot interleave with a reschedule of the same appointment.
func (r *AppointmentMemoryRepository) WithinTx(ctx context.Context, fn func(tx domain.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return httperr.ErrUnavailable(err)
	}
	r.txMu.Lock()
	defer r.txMu.Unlock()
	return fn(r)
}

// --------------------------------------------------
// Scheduler reads
// --------------------------------------------------

func (r *AppointmentMemoryRepository) FindOccupyingBookings(
	_ context.Context,
	date time.Time,
	resourceID *uint,
) ([]domain.Booking, error) {

	r.mu.RLock()
	defer r.mu.RUnlock()

	day := domain.FormatDate(date)
	var out []domain.Booking
	for _, ap := range r.appointments {
		if domain.FormatDate(ap.Date) != day {
			continue
		}
		if resourceID != nil && (ap.ProfessionalID == nil || *ap.ProfessionalID != *resourceID) {
			continue
		}
		b := domain.BookingFromModel(&ap)
		if !b.Status.Occupies() {
			continue
		}
		out = append(out, b)
	}

	slices.SortFunc(out, func(a, b domain.Booking) int {
		return cmp.Or(cmp.Compare(a.Start, b.Start), cmp.Compare(a.ID, b.ID))
	})
	return out, nil
}

func (r *AppointmentMemoryRepository) FindServiceDuration(
	_ context.Context,
	serviceID uint,
) (domain.ServiceDuration, error) {

	r.mu.RLock()
	defer r.mu.RUnlock()

	svc, ok := r.services[serviceID]
	if !ok || !svc.Active {
		return domain.ServiceDuration{}, httperr.ErrNotFound(httperr.CodeServiceNotFound, "Service not found")
	}
	return domain.ServiceDuration{ServiceID: svc.ID, Minutes: svc.DurationMin, Price: svc.Price}, nil
}

func (r *AppointmentMemoryRepository) GetWorkingHours(
	_ context.Context,
	professionalID uint,
	weekday int,
) (*models.WorkingHours, error) {

	r.mu.RLock()
	defer r.mu.RUnlock()

	wh, ok := r.workingHours[workingHoursKey(professionalID, weekday)]
	if !ok {
		return nil, nil
	}
	return &wh, nil
}

func (r *AppointmentMemoryRepository) GetClient(_ context.Context, id uint) (*models.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.clients[id]
	if !ok {
		return nil, httperr.ErrNotFound(httperr.CodeClientNotFound, "Client not found")
	}
	return &c, nil
}

func (r *AppointmentMemoryRepository) GetProfessional(_ context.Context, id uint) (*models.Professional, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.professionals[id]
	if !ok {
		return nil, httperr.ErrNotFound(httperr.CodeProfessionalMissing, "Professional not found")
	}
	return &p, nil
}

// --------------------------------------------------
// Appointment writes
// --------------------------------------------------

func (r *AppointmentMemoryRepository) CreateAppointment(_ context.Context, ap *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ap.ID = r.assignID("appointments", ap.ID)
	now := r.now()
	ap.CreatedAt, ap.UpdatedAt = now, now
	r.appointments[ap.ID] = *ap
	return nil
}

func (r *AppointmentMemoryRepository) GetAppointment(_ context.Context, id uint) (*models.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ap, ok := r.appointments[id]
	if !ok {
		return nil, httperr.ErrNotFound(httperr.CodeAppointmentNotFound, "Appointment not found")
	}
	return &ap, nil
}

func (r *AppointmentMemoryRepository) UpdateAppointment(_ context.Context, ap *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.appointments[ap.ID]; !ok {
		return httperr.ErrNotFound(httperr.CodeAppointmentNotFound, "Appointment not found")
	}
	ap.UpdatedAt = r.now()
	r.appointments[ap.ID] = *ap
	return nil
}

// --------------------------------------------------
// Read projection
// --------------------------------------------------

// view must be called with r.mu held.
func (r *AppointmentMemoryRepository) view(ap *models.Appointment) dto.AppointmentView {
	professional := ""
	if ap.ProfessionalID != nil {
		professional = r.professionals[*ap.ProfessionalID].Name
	}
	return domain.NewView(ap,
		r.clients[ap.ClientID].Name,
		r.services[ap.ServiceID].Name,
		professional,
	)
}

func (r *AppointmentMemoryRepository) GetAppointmentView(_ context.Context, id uint) (*dto.AppointmentView, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ap, ok := r.appointments[id]
	if !ok {
		return nil, httperr.ErrNotFound(httperr.CodeAppointmentNotFound, "Appointment not found")
	}
	v := r.view(&ap)
	return &v, nil
}

func (r *AppointmentMemoryRepository) ListAppointments(
	_ context.Context,
	f dto.AppointmentFilter,
) ([]dto.AppointmentView, int64, error) {

	f.Normalize()

	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []models.Appointment
	for _, ap := range r.appointments {
		if matchesFilter(&ap, f) {
			matched = append(matched, ap)
		}
	}

	slices.SortFunc(matched, func(a, b models.Appointment) int {
		return cmp.Or(
			b.Date.Compare(a.Date),
			cmp.Compare(a.StartMinute, b.StartMinute),
			cmp.Compare(a.ID, b.ID),
		)
	})

	total := int64(len(matched))
	start := min(f.Offset(), len(matched))
	end := min(start+f.Limit, len(matched))

	out := make([]dto.AppointmentView, 0, end-start)
	for i := start; i < end; i++ {
		out = append(out, r.view(&matched[i]))
	}
	return out, total, nil
}

func matchesFilter(ap *models.Appointment, f dto.AppointmentFilter) bool {
	day := domain.FormatDate(ap.Date)
	if f.Date != nil && day != domain.FormatDate(*f.Date) {
		return false
	}
	if f.From != nil && strings.Compare(day, domain.FormatDate(*f.From)) < 0 {
		return false
	}
	if f.To != nil && strings.Compare(day, domain.FormatDate(*f.To)) > 0 {
		return false
	}
	if f.ProfessionalID != nil && (ap.ProfessionalID == nil || *ap.ProfessionalID != *f.ProfessionalID) {
		return false
	}
	if f.ClientID != nil && ap.ClientID != *f.ClientID {
		return false
	}
	if f.Status != "" && ap.Status != f.Status {
		return false
	}
	return true
}

var _ domain.Repository = (*AppointmentMemoryRepository)(nil)
