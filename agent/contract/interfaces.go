package contract

import (
	"context"
	"time"
)

// ScheduleStore persists appointments partitioned by owner.
//
// QueryByOwner returns records ordered by date ascending with ties broken by
// store-assigned insertion order. A nil range selects every record of the owner.
type ScheduleStore interface {
	Add(ctx context.Context, in NewAppointment) (string, error)
	Get(ctx context.Context, id string) (Appointment, error)
	Update(ctx context.Context, id string, patch AppointmentPatch) error
	Delete(ctx context.Context, id string) error
	QueryByOwner(ctx context.Context, ownerID string, rng *DateRange) ([]Appointment, error)
}

// Recorder receives per-turn observations. Implementations must be safe for
// concurrent use.
type Recorder interface {
	ObserveTurn(intent string, reply string, duration time.Duration)
	IncStoreError(op string)
}

type NoopRecorder struct{}

func (NoopRecorder) ObserveTurn(string, string, time.Duration) {}

func (NoopRecorder) IncStoreError(string) {}
