package contract

import (
	"errors"
	"testing"
	"time"
)

func TestCalendarDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		y, m, d int
		ok      bool
	}{
		{2025, 10, 5, true},
		{2024, 2, 29, true},
		{2025, 2, 29, false},
		{2025, 2, 30, false},
		{2025, 13, 1, false},
		{2025, 0, 1, false},
		{2025, 4, 31, false},
		{2025, 4, 0, false},
	}

	for _, tc := range tests {
		got, ok := CalendarDate(tc.y, tc.m, tc.d, time.UTC)
		if ok != tc.ok {
			t.Fatalf("CalendarDate(%d,%d,%d) ok = %v, want %v", tc.y, tc.m, tc.d, ok, tc.ok)
		}
		if ok && (got.Year() != tc.y || int(got.Month()) != tc.m || got.Day() != tc.d) {
			t.Fatalf("CalendarDate(%d,%d,%d) = %v", tc.y, tc.m, tc.d, got)
		}
	}
}

func TestRanges(t *testing.T) {
	t.Parallel()

	if got := MonthRange(2024, time.February, time.UTC); got != (DateRange{From: "2024-02-01", To: "2024-02-29"}) {
		t.Fatalf("MonthRange() = %+v", got)
	}
	if got := MonthRange(2025, time.December, time.UTC); got != (DateRange{From: "2025-12-01", To: "2025-12-31"}) {
		t.Fatalf("MonthRange() = %+v", got)
	}

	day := DayRange(time.Date(2025, 10, 5, 23, 59, 0, 0, time.UTC))
	if day != (DateRange{From: "2025-10-05", To: "2025-10-05"}) {
		t.Fatalf("DayRange() = %+v", day)
	}
	if !day.Contains("2025-10-05") || day.Contains("2025-10-06") {
		t.Fatal("Contains() mismatch for single-day range")
	}

	if err := (DateRange{From: "2025-10-31", To: "2025-10-01"}).Validate(); !errors.Is(err, ErrValidation) {
		t.Fatalf("Validate() error = %v, want ErrValidation", err)
	}
	if err := (DateRange{From: "2025-10-01", To: "soon"}).Validate(); !errors.Is(err, ErrValidation) {
		t.Fatalf("Validate() error = %v, want ErrValidation", err)
	}
}

func TestAppointmentApply(t *testing.T) {
	t.Parallel()

	a := Appointment{ID: "1", Date: "2025-10-05", Time: "14:00", Content: "会議"}
	content := "定例"
	got := a.Apply(AppointmentPatch{Content: &content})

	if got.Content != "定例" || got.Date != a.Date || got.Time != a.Time {
		t.Fatalf("Apply() = %+v", got)
	}
	if a.Content != "会議" {
		t.Fatal("Apply() mutated the receiver")
	}
	if !(AppointmentPatch{}).IsEmpty() || (AppointmentPatch{Content: &content}).IsEmpty() {
		t.Fatal("IsEmpty() mismatch")
	}
}
