package contract

import (
	"fmt"
	"time"
)

// DateLayout is the storage and display format of an appointment date.
const DateLayout = "2006-01-02"

type Appointment struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Date      string    `json:"date"`           // YYYY-MM-DD
	Time      string    `json:"time,omitempty"` // H:MM, verbatim from the user
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// HasTime reports whether a clock time was given for the appointment.
func (a Appointment) HasTime() bool {
	return a.Time != ""
}

// Apply returns a copy of a with every non-nil field of p merged in.
func (a Appointment) Apply(p AppointmentPatch) Appointment {
	if p.Date != nil {
		a.Date = *p.Date
	}
	if p.Time != nil {
		a.Time = *p.Time
	}
	if p.Content != nil {
		a.Content = *p.Content
	}
	return a
}

// AppointmentPatch carries a partial update. Nil fields are left untouched.
type AppointmentPatch struct {
	Date    *string `json:"date,omitempty"`
	Time    *string `json:"time,omitempty"`
	Content *string `json:"content,omitempty"`
}

func (p AppointmentPatch) IsEmpty() bool {
	return p.Date == nil && p.Time == nil && p.Content == nil
}

// NewAppointment is the input of ScheduleStore.Add.
type NewAppointment struct {
	OwnerID string
	Date    string
	Time    string
	Content string
}

// DateRange is an inclusive range of YYYY-MM-DD dates.
type DateRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// DayRange returns the single-day range of t's calendar date.
func DayRange(t time.Time) DateRange {
	d := t.Format(DateLayout)
	return DateRange{From: d, To: d}
}

// MonthRange returns the first through last calendar day of month in year.
func MonthRange(year int, month time.Month, loc *time.Location) DateRange {
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	last := first.AddDate(0, 1, -1)
	return DateRange{From: first.Format(DateLayout), To: last.Format(DateLayout)}
}

func (r DateRange) Validate() error {
	from, err := time.Parse(DateLayout, r.From)
	if err != nil {
		return fmt.Errorf("%w: range from=%q", ErrValidation, r.From)
	}
	to, err := time.Parse(DateLayout, r.To)
	if err != nil {
		return fmt.Errorf("%w: range to=%q", ErrValidation, r.To)
	}
	if to.Before(from) {
		return fmt.Errorf("%w: range %s..%s is reversed", ErrValidation, r.From, r.To)
	}
	return nil
}

// Contains reports whether date (YYYY-MM-DD) falls inside r.
func (r DateRange) Contains(date string) bool {
	return date >= r.From && date <= r.To
}

// CalendarDate builds a date and reports false when the parts do not name a
// real calendar day (time.Date would silently normalize Feb 30 to Mar 2).
func CalendarDate(year, month, day int, loc *time.Location) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}
