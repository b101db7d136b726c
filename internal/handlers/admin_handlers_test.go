package handlers

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/BruksfildServices01/salon-manager/internal/httperr"
	"github.com/BruksfildServices01/salon-manager/internal/infra/repository"
	"github.com/BruksfildServices01/salon-manager/internal/metrics"
	"github.com/BruksfildServices01/salon-manager/internal/usecase/report"
)

func TestWorkingDayConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		day  WorkingDayConfig
		code string
	}{
		{"day off skips checks", WorkingDayConfig{Weekday: 0, Active: false, StartTime: "bad"}, ""},
		{"plain day", WorkingDayConfig{Weekday: 1, Active: true, StartTime: "09:00", EndTime: "18:00"}, ""},
		{"with lunch", WorkingDayConfig{Weekday: 2, Active: true, StartTime: "09:00", EndTime: "18:00", LunchStart: "12:00", LunchEnd: "13:00"}, ""},
		{"end before start", WorkingDayConfig{Weekday: 3, Active: true, StartTime: "18:00", EndTime: "09:00"}, httperr.CodeInvalidTime},
		{"malformed time", WorkingDayConfig{Weekday: 3, Active: true, StartTime: "9h", EndTime: "18:00"}, httperr.CodeInvalidTime},
		{"half lunch", WorkingDayConfig{Weekday: 4, Active: true, StartTime: "09:00", EndTime: "18:00", LunchStart: "12:00"}, httperr.CodeInvalidTime},
		{"lunch outside hours", WorkingDayConfig{Weekday: 5, Active: true, StartTime: "09:00", EndTime: "12:00", LunchStart: "12:00", LunchEnd: "13:00"}, httperr.CodeInvalidTime},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.day.validate()
			if tt.code == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !httperr.IsBusiness(err, tt.code) {
				t.Fatalf("expected %s, got %v", tt.code, err)
			}
		})
	}
}

func TestHashPassword(t *testing.T) {
	hashed, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hashed == "s3cret-pass" {
		t.Fatal("password stored in clear text")
	}
	if bcrypt.CompareHashAndPassword([]byte(hashed), []byte("s3cret-pass")) != nil {
		t.Fatal("hash does not match its password")
	}
	if bcrypt.CompareHashAndPassword([]byte(hashed), []byte("other")) == nil {
		t.Fatal("hash matches a different password")
	}
}

func TestHealthWithoutDependencies(t *testing.T) {
	h := NewHealthHandler(nil, nil, "memory")
	r := gin.New()
	r.GET("/health", h.Live)
	r.GET("/ready", h.Ready)

	for _, path := range []string{"/health", "/ready"} {
		w := do(r, http.MethodGet, path, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, w.Code)
		}
	}
}

type recordingUploader struct {
	keys []string
}

func (u *recordingUploader) Upload(_ context.Context, key, _ string, _ []byte) (string, error) {
	u.keys = append(u.keys, key)
	return "https://files.test/" + key, nil
}

func TestReportExport(t *testing.T) {
	now := func() time.Time { return time.Date(2024, 12, 20, 9, 0, 0, 0, time.UTC) }
	repo := repository.NewAppointmentMemoryRepository(now)
	repo.Seed()

	up := &recordingUploader{}
	h := NewReportHandler(report.NewExportAppointments(repo, up, "exports", now), metrics.NewCollector("test"))

	r := gin.New()
	r.POST("/export", h.ExportAppointments)

	w := do(r, http.MethodPost, "/export?from=2024-12-01", nil)
	if w.Code != http.StatusBadRequest || decode(t, w).Code != httperr.CodeInvalidDate {
		t.Fatalf("missing 'to': got %d %s", w.Code, w.Body.String())
	}

	w = do(r, http.MethodPost, "/export?from=2024-12-10&to=2024-12-01", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("inverted range: expected 400, got %d", w.Code)
	}
	if len(up.keys) != 0 {
		t.Fatalf("nothing should be uploaded on validation errors, got %v", up.keys)
	}

	w = do(r, http.MethodPost, "/export?from=2024-12-01&to=2024-12-31", nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if len(up.keys) != 1 || !strings.HasPrefix(up.keys[0], "exports/appointments_2024-12-01_2024-12-31_") {
		t.Fatalf("unexpected upload keys %v", up.keys)
	}
}
