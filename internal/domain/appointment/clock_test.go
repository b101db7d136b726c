package appointment

import (
	"testing"

	"github.com/BruksfildServices01/salon-manager/internal/httperr"
)

func TestParseTimeOfDay(t *testing.T) {
	cases := []struct {
		in   string
		want TimeOfDay
	}{
		{"00:00", 0},
		{"08:00", 480},
		{"09:15", 555},
		{"23:59", 1439},
	}
	for _, tc := range cases {
		got, err := ParseTimeOfDay(tc.in)
		if err != nil {
			t.Fatalf("ParseTimeOfDay(%q) failed: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseTimeOfDay(%q) = %d, want %d", tc.in, got, tc.want)
		}
		if got.String() != tc.in {
			t.Fatalf("String() = %q, want %q", got.String(), tc.in)
		}
	}
}

func TestParseTimeOfDay_Invalid(t *testing.T) {
	for _, in := range []string{"", "24:00", "9h30", "12:60"} {
		_, err := ParseTimeOfDay(in)
		if !httperr.IsBusiness(err, httperr.CodeInvalidTime) {
			t.Fatalf("ParseTimeOfDay(%q): expected INVALID_TIME, got %v", in, err)
		}
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-12-15")
	if err != nil {
		t.Fatalf("ParseDate failed: %v", err)
	}
	if FormatDate(d) != "2024-12-15" {
		t.Fatalf("round trip mismatch: %s", FormatDate(d))
	}

	if _, err := ParseDate("15/12/2024"); !httperr.IsKind(err, httperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
