package appointment

import (
	"context"
	"slices"
	"testing"
	"time"

	domain "github.com/BruksfildServices01/salon-manager/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-manager/internal/dto"
	"github.com/BruksfildServices01/salon-manager/internal/httperr"
	"github.com/BruksfildServices01/salon-manager/internal/infra/repository"
	"github.com/BruksfildServices01/salon-manager/internal/models"
)

type fixture struct {
	repo    *repository.AppointmentMemoryRepository
	pro     models.Professional
	client  models.Client
	service models.Service
	window  domain.Window
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	repo := repository.NewAppointmentMemoryRepository(func() time.Time {
		return time.Date(2024, 12, 1, 12, 0, 0, 0, time.UTC)
	})
	w, err := domain.NewWindow("08:00", "18:00", 30)
	if err != nil {
		t.Fatalf("NewWindow: %v", err)
	}
	return fixture{
		repo:    repo,
		pro:     repo.AddProfessional(models.Professional{Name: "R1", Active: true}),
		client:  repo.AddClient(models.Client{Name: "Maria"}),
		service: repo.AddService(models.Service{Name: "Cut", DurationMin: 30, Price: 50, Active: true}),
		window:  w,
	}
}

// book creates the confirmed [09:00,10:00) booking of the reference scenario.
func (f fixture) book(t *testing.T) {
	t.Helper()
	long := f.repo.AddService(models.Service{Name: "Color", DurationMin: 60, Price: 120, Active: true})
	created, err := NewCreateAppointment(f.repo, nil).Execute(context.Background(), CreateAppointmentInput{
		ClientID:       f.client.ID,
		ServiceID:      long.ID,
		ProfessionalID: &f.pro.ID,
		Date:           "2024-12-15",
		Time:           "09:00",
	})
	if err != nil {
		t.Fatalf("seed booking: %v", err)
	}
	if _, err := NewTransitionAppointment(f.repo, nil, nil).
		Execute(context.Background(), created.ID, domain.StatusConfirmed, nil); err != nil {
		t.Fatalf("confirm seed booking: %v", err)
	}
}

func TestGetAvailability_Scenario(t *testing.T) {
	f := newFixture(t)
	f.book(t)

	date, _ := domain.ParseDate("2024-12-15")
	uc := NewGetAvailability(f.repo, f.window)
	in := domain.AvailabilityInput{Date: date, ResourceID: &f.pro.ID, ServiceID: f.service.ID}

	first, err := uc.Execute(context.Background(), in)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	got := domain.FormatSlots(first)

	var want []string
	for s := range domain.Slots(f.window.Start, f.window.End, 30) {
		if s.String() != "09:00" && s.String() != "09:30" {
			want = append(want, s.String())
		}
	}
	if !slices.Equal(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	second, err := uc.Execute(context.Background(), in)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !slices.Equal(first, second) {
		t.Fatal("availability is not idempotent")
	}
}

func TestGetAvailability_UnknownService(t *testing.T) {
	f := newFixture(t)
	date, _ := domain.ParseDate("2024-12-15")

	_, err := NewGetAvailability(f.repo, f.window).Execute(context.Background(), domain.AvailabilityInput{
		Date:      date,
		ServiceID: 999,
	})
	if !httperr.IsBusiness(err, httperr.CodeServiceNotFound) || !httperr.IsKind(err, httperr.KindNotFound) {
		t.Fatalf("expected SERVICE_NOT_FOUND, got %v", err)
	}
}

func TestGetAvailability_WorkingHours(t *testing.T) {
	f := newFixture(t)
	date, _ := domain.ParseDate("2024-12-15") // Sunday
	f.repo.SetWorkingHours(models.WorkingHours{
		ProfessionalID: f.pro.ID,
		Weekday:        int(time.Sunday),
		StartTime:      "10:00",
		EndTime:        "12:00",
		LunchStart:     "11:00",
		LunchEnd:       "11:30",
		Active:         true,
	})

	slots, err := NewGetAvailability(f.repo, f.window).Execute(context.Background(), domain.AvailabilityInput{
		Date:       date,
		ResourceID: &f.pro.ID,
		ServiceID:  f.service.ID,
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	got := domain.FormatSlots(slots)
	want := []string{"10:00", "10:30", "11:30"}
	if !slices.Equal(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestCreateAppointment_RejectsOverlap(t *testing.T) {
	f := newFixture(t)
	f.book(t)

	_, err := NewCreateAppointment(f.repo, nil).Execute(context.Background(), CreateAppointmentInput{
		ClientID:       f.client.ID,
		ServiceID:      f.service.ID,
		ProfessionalID: &f.pro.ID,
		Date:           "2024-12-15",
		Time:           "09:15",
	})
	if !httperr.IsBusiness(err, httperr.CodeScheduleConflict) {
		t.Fatalf("expected SCHEDULE_CONFLICT, got %v", err)
	}
}

func TestCreateAppointment_BackToBack(t *testing.T) {
	f := newFixture(t)
	f.book(t)

	view, err := NewCreateAppointment(f.repo, nil).Execute(context.Background(), CreateAppointmentInput{
		ClientID:       f.client.ID,
		ServiceID:      f.service.ID,
		ProfessionalID: &f.pro.ID,
		Date:           "2024-12-15",
		Time:           "10:00",
		Notes:          "first visit",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if view.Time != "10:00" || view.EndTime != "10:30" || view.Status != "scheduled" {
		t.Fatalf("unexpected view: %+v", view)
	}
	if view.ClientName != "Maria" || view.ServiceName != "Cut" || view.ProfessionalName != "R1" {
		t.Fatalf("display names missing: %+v", view)
	}
}

func TestCreateAppointment_Validation(t *testing.T) {
	f := newFixture(t)
	uc := NewCreateAppointment(f.repo, nil)

	cases := []struct {
		name string
		in   CreateAppointmentInput
		code string
	}{
		{"bad date", CreateAppointmentInput{ClientID: f.client.ID, ServiceID: f.service.ID, Date: "15/12/2024", Time: "09:00"}, httperr.CodeInvalidDate},
		{"bad time", CreateAppointmentInput{ClientID: f.client.ID, ServiceID: f.service.ID, Date: "2024-12-15", Time: "9am"}, httperr.CodeInvalidTime},
		{"unknown client", CreateAppointmentInput{ClientID: 99, ServiceID: f.service.ID, Date: "2024-12-15", Time: "09:00"}, httperr.CodeClientNotFound},
		{"unknown service", CreateAppointmentInput{ClientID: f.client.ID, ServiceID: 99, Date: "2024-12-15", Time: "09:00"}, httperr.CodeServiceNotFound},
	}
	for _, tc := range cases {
		if _, err := uc.Execute(context.Background(), tc.in); !httperr.IsBusiness(err, tc.code) {
			t.Fatalf("%s: expected %s, got %v", tc.name, tc.code, err)
		}
	}
}

func TestCancelledSlotCanBeRebooked(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	create := NewCreateAppointment(f.repo, nil)
	in := CreateAppointmentInput{
		ClientID:       f.client.ID,
		ServiceID:      f.service.ID,
		ProfessionalID: &f.pro.ID,
		Date:           "2024-12-15",
		Time:           "14:00",
	}

	first, err := create.Execute(ctx, in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := NewTransitionAppointment(f.repo, nil, nil).Execute(ctx, first.ID, domain.StatusCancelled, nil); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if _, err := create.Execute(ctx, in); err != nil {
		t.Fatalf("rebooking a cancelled slot failed: %v", err)
	}
}

func TestRescheduleAppointment(t *testing.T) {
	f := newFixture(t)
	f.book(t)
	ctx := context.Background()

	ap, err := NewCreateAppointment(f.repo, nil).Execute(ctx, CreateAppointmentInput{
		ClientID:       f.client.ID,
		ServiceID:      f.service.ID,
		ProfessionalID: &f.pro.ID,
		Date:           "2024-12-15",
		Time:           "10:00",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	uc := NewRescheduleAppointment(f.repo, nil)

	// Moving onto its own slot shifted by 15 minutes overlaps only itself.
	moved, err := uc.Execute(ctx, RescheduleInput{AppointmentID: ap.ID, Date: "2024-12-15", Time: "10:15"})
	if err != nil {
		t.Fatalf("reschedule onto own slot: %v", err)
	}
	if moved.Time != "10:15" {
		t.Fatalf("expected 10:15, got %s", moved.Time)
	}

	_, err = uc.Execute(ctx, RescheduleInput{AppointmentID: ap.ID, Date: "2024-12-15", Time: "09:30"})
	if !httperr.IsBusiness(err, httperr.CodeScheduleConflict) {
		t.Fatalf("expected SCHEDULE_CONFLICT, got %v", err)
	}

	_, err = uc.Execute(ctx, RescheduleInput{AppointmentID: 999, Date: "2024-12-15", Time: "11:00"})
	if !httperr.IsBusiness(err, httperr.CodeAppointmentNotFound) {
		t.Fatalf("expected APPOINTMENT_NOT_FOUND, got %v", err)
	}
}

func TestTransitionAppointment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ap, err := NewCreateAppointment(f.repo, nil).Execute(ctx, CreateAppointmentInput{
		ClientID:  f.client.ID,
		ServiceID: f.service.ID,
		Date:      "2024-12-15",
		Time:      "15:00",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	uc := NewTransitionAppointment(f.repo, nil, nil)
	if _, err := uc.Execute(ctx, ap.ID, domain.StatusCompleted, nil); !httperr.IsBusiness(err, httperr.CodeInvalidTransition) {
		t.Fatalf("scheduled -> completed should be rejected, got %v", err)
	}
	if _, err := uc.Execute(ctx, ap.ID, domain.StatusConfirmed, nil); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	view, err := uc.Execute(ctx, ap.ID, domain.StatusCompleted, nil)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if view.Status != "completed" {
		t.Fatalf("expected completed, got %s", view.Status)
	}
}

func TestListAppointments(t *testing.T) {
	f := newFixture(t)
	f.book(t)

	items, page, err := NewListAppointments(f.repo).Execute(context.Background(), dto.AppointmentFilter{Status: "confirmed"})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(items) != 1 || page.Total != 1 || page.Page != 1 || page.Limit != dto.DefaultPageSize {
		t.Fatalf("unexpected result: %+v %+v", items, page)
	}

	_, _, err = NewListAppointments(f.repo).Execute(context.Background(), dto.AppointmentFilter{Status: "done"})
	if !httperr.IsBusiness(err, httperr.CodeInvalidStatus) {
		t.Fatalf("expected INVALID_STATUS, got %v", err)
	}
}
