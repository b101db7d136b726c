package appointment

import (
	"testing"
	"time"

	"github.com/BruksfildServices01/salon-manager/internal/httperr"
	"github.com/BruksfildServices01/salon-manager/internal/models"
)

func TestCanTransition(t *testing.T) {
	allowed := map[[2]Status]bool{
		{StatusScheduled, StatusConfirmed}: true,
		{StatusScheduled, StatusCancelled}: true,
		{StatusScheduled, StatusNoShow}:    true,
		{StatusConfirmed, StatusCompleted}: true,
		{StatusConfirmed, StatusCancelled}: true,
		{StatusConfirmed, StatusNoShow}:    true,
	}
	all := []Status{StatusScheduled, StatusConfirmed, StatusCompleted, StatusCancelled, StatusNoShow}

	for _, from := range all {
		for _, to := range all {
			err := CanTransition(from, to)
			if allowed[[2]Status{from, to}] {
				if err != nil {
					t.Fatalf("%s -> %s should be allowed: %v", from, to, err)
				}
				continue
			}
			if !httperr.IsBusiness(err, httperr.CodeInvalidTransition) {
				t.Fatalf("%s -> %s should be rejected, got %v", from, to, err)
			}
		}
	}
}

func TestStatusTerminal(t *testing.T) {
	for _, st := range []Status{StatusCompleted, StatusCancelled, StatusNoShow} {
		if !st.Terminal() {
			t.Fatalf("%s should be terminal", st)
		}
	}
	if StatusScheduled.Terminal() || StatusConfirmed.Terminal() {
		t.Fatal("scheduled/confirmed are not terminal")
	}
	if _, err := ParseStatus("done"); !httperr.IsBusiness(err, httperr.CodeInvalidStatus) {
		t.Fatalf("expected INVALID_STATUS, got %v", err)
	}
}

func TestTransition_Stamps(t *testing.T) {
	now := time.Date(2024, 12, 15, 10, 0, 0, 0, time.UTC)
	ap := &models.Appointment{Status: string(StatusScheduled)}

	if err := Transition(ap, StatusConfirmed, now); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if ap.ConfirmedAt == nil || !ap.ConfirmedAt.Equal(now) {
		t.Fatal("confirmed_at not stamped")
	}
	if err := Transition(ap, StatusCompleted, now); err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if ap.CompletedAt == nil {
		t.Fatal("completed_at not stamped")
	}
	if err := Transition(ap, StatusCancelled, now); err == nil {
		t.Fatal("completed appointment must not be cancelled")
	}
}
