package appointment

import "testing"

func TestSlots_Bounds(t *testing.T) {
	cases := []struct {
		start, end TimeOfDay
		step       int
	}{
		{480, 1080, 30},
		{480, 1080, 45},
		{540, 600, 7},
		{0, 1439, 60},
		{600, 601, 30},
	}
	for _, tc := range cases {
		n := 0
		prev := TimeOfDay(-1)
		for s := range Slots(tc.start, tc.end, tc.step) {
			if s < tc.start || s >= tc.end {
				t.Fatalf("slot %s outside [%s,%s)", s, tc.start, tc.end)
			}
			if s <= prev {
				t.Fatalf("slots not increasing: %s after %s", s, prev)
			}
			if int(s-tc.start)%tc.step != 0 {
				t.Fatalf("slot %s not on step %d", s, tc.step)
			}
			prev = s
			n++
		}
		if want := SlotCount(tc.start, tc.end, tc.step); n != want {
			t.Fatalf("[%s,%s)/%d: got %d slots, want %d", tc.start, tc.end, tc.step, n, want)
		}
	}
}

func TestSlots_PartialLastStep(t *testing.T) {
	var got []string
	for s := range Slots(480, 580, 30) {
		got = append(got, s.String())
	}
	want := []string{"08:00", "08:30", "09:00", "09:30"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestSlots_Empty(t *testing.T) {
	for range Slots(600, 600, 30) {
		t.Fatal("expected no slots when end == start")
	}
	for range Slots(600, 540, 30) {
		t.Fatal("expected no slots when end < start")
	}
	for range Slots(480, 1080, 0) {
		t.Fatal("expected no slots for zero step")
	}
}

func TestSlots_Restartable(t *testing.T) {
	seq := Slots(480, 600, 30)
	count := func() int {
		n := 0
		for range seq {
			n++
		}
		return n
	}
	if a, b := count(), count(); a != 4 || b != 4 {
		t.Fatalf("expected 4 slots on both passes, got %d and %d", a, b)
	}
}
