package timezone

import (
	"testing"
	"time"
)

func TestLocation_Fallback(t *testing.T) {
	if got := Location("Not/AZone"); got.String() != DefaultTimezone && got != time.UTC {
		t.Fatalf("unexpected fallback %s", got)
	}
	if got := Location("UTC"); got.String() != "UTC" {
		t.Fatalf("expected UTC, got %s", got)
	}
}

func TestToday(t *testing.T) {
	loc := time.FixedZone("BRT", -3*3600)
	now := time.Date(2024, 12, 15, 22, 30, 0, 0, loc)

	got := Today(now)
	want := time.Date(2024, 12, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got)
	}
}
