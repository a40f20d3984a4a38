package schedule

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	contractx "github.com/tanpawarit/Chative-Schedule-Assistant/agent/contract"
	"github.com/tanpawarit/Chative-Schedule-Assistant/pkg/database"
)

func newSQLTestStore(t *testing.T) *SQLStore {
	t.Helper()

	db, err := database.Open(context.Background(), database.Config{Driver: database.DriverSQLite, DSN: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store := NewSQLStore(db)
	require.NoError(t, store.CreateSchema(context.Background()))
	return store
}

func stores(t *testing.T) map[string]contractx.ScheduleStore {
	return map[string]contractx.ScheduleStore{
		"sql":    newSQLTestStore(t),
		"memory": NewMemoryStore(),
	}
}

func mustAdd(t *testing.T, s contractx.ScheduleStore, owner, date, clock, content string) string {
	t.Helper()
	id, err := s.Add(context.Background(), contractx.NewAppointment{OwnerID: owner, Date: date, Time: clock, Content: content})
	require.NoError(t, err)
	require.NotEmpty(t, id)
	return id
}

func contents(items []contractx.Appointment) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Content)
	}
	return out
}

func TestStoreAddGetRoundTrip(t *testing.T) {
	t.Parallel()

	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			id := mustAdd(t, s, "U1", "2025-10-05", "14:00", "会議")
			got, err := s.Get(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, id, got.ID)
			assert.Equal(t, "U1", got.OwnerID)
			assert.Equal(t, "2025-10-05", got.Date)
			assert.Equal(t, "14:00", got.Time)
			assert.Equal(t, "会議", got.Content)
			assert.False(t, got.CreatedAt.IsZero())

			noTime := mustAdd(t, s, "U1", "2025-10-06", "", "買い物")
			got, err = s.Get(ctx, noTime)
			require.NoError(t, err)
			assert.False(t, got.HasTime())

			items, err := s.QueryByOwner(ctx, "U1", nil)
			require.NoError(t, err)
			assert.Equal(t, []string{"会議", "買い物"}, contents(items))
		})
	}
}

func TestStoreQueryOrdersByDateThenInsertion(t *testing.T) {
	t.Parallel()

	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			mustAdd(t, s, "U1", "2025-10-20", "", "c")
			mustAdd(t, s, "U1", "2025-10-05", "18:00", "a")
			mustAdd(t, s, "U1", "2025-10-05", "09:00", "b")
			mustAdd(t, s, "U1", "2025-11-01", "", "d")
			mustAdd(t, s, "U2", "2025-10-05", "", "other")

			all, err := s.QueryByOwner(ctx, "U1", nil)
			require.NoError(t, err)
			assert.Equal(t, []string{"a", "b", "c", "d"}, contents(all))

			october, err := s.QueryByOwner(ctx, "U1", &contractx.DateRange{From: "2025-10-01", To: "2025-10-31"})
			require.NoError(t, err)
			assert.Equal(t, []string{"a", "b", "c"}, contents(october))

			day, err := s.QueryByOwner(ctx, "U1", &contractx.DateRange{From: "2025-10-20", To: "2025-10-20"})
			require.NoError(t, err)
			assert.Equal(t, []string{"c"}, contents(day))

			none, err := s.QueryByOwner(ctx, "U3", nil)
			require.NoError(t, err)
			assert.Empty(t, none)
		})
	}
}

func TestStoreUpdateAppliesPatch(t *testing.T) {
	t.Parallel()

	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			id := mustAdd(t, s, "U1", "2025-10-05", "14:00", "会議")

			date := "2025-11-03"
			require.NoError(t, s.Update(ctx, id, contractx.AppointmentPatch{Date: &date}))
			got, err := s.Get(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, "2025-11-03", got.Date)
			assert.Equal(t, "14:00", got.Time)
			assert.Equal(t, "会議", got.Content)

			content := "定例会議"
			clock := "9:15"
			require.NoError(t, s.Update(ctx, id, contractx.AppointmentPatch{Time: &clock, Content: &content}))
			got, err = s.Get(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, "9:15", got.Time)
			assert.Equal(t, "定例会議", got.Content)

			require.NoError(t, s.Update(ctx, id, contractx.AppointmentPatch{}))
		})
	}
}

func TestStoreMissingRecords(t *testing.T) {
	t.Parallel()

	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			id := mustAdd(t, s, "U1", "2025-10-05", "", "会議")

			require.NoError(t, s.Delete(ctx, id))
			require.ErrorIs(t, s.Delete(ctx, id), contractx.ErrAppointmentNotFound)

			_, err := s.Get(ctx, id)
			require.ErrorIs(t, err, contractx.ErrAppointmentNotFound)

			content := "x"
			require.ErrorIs(t, s.Update(ctx, id, contractx.AppointmentPatch{Content: &content}), contractx.ErrAppointmentNotFound)

			_, err = s.Get(ctx, "not-a-number")
			require.ErrorIs(t, err, contractx.ErrAppointmentNotFound)
		})
	}
}

func TestStoreAddValidates(t *testing.T) {
	t.Parallel()

	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := s.Add(ctx, contractx.NewAppointment{Date: "2025-10-05", Content: "x"})
			require.ErrorIs(t, err, contractx.ErrValidation)

			_, err = s.Add(ctx, contractx.NewAppointment{OwnerID: "U1", Date: "2025-02-30", Content: "x"})
			require.ErrorIs(t, err, contractx.ErrInvalidDate)

			_, err = s.Add(ctx, contractx.NewAppointment{OwnerID: "U1", Date: "2025-10-05", Content: " "})
			require.ErrorIs(t, err, contractx.ErrValidation)

			_, err = s.QueryByOwner(ctx, "", nil)
			require.ErrorIs(t, err, contractx.ErrValidation)
		})
	}
}

func TestSQLStoreClosedDatabaseIsUnavailable(t *testing.T) {
	t.Parallel()

	db, err := database.Open(context.Background(), database.Config{Driver: database.DriverSQLite, DSN: ":memory:"})
	require.NoError(t, err)
	s := NewSQLStore(db)
	require.NoError(t, s.CreateSchema(context.Background()))
	require.NoError(t, db.Close())

	_, err = s.QueryByOwner(context.Background(), "U1", nil)
	require.ErrorIs(t, err, contractx.ErrStoreUnavailable)

	_, err = s.Add(context.Background(), contractx.NewAppointment{OwnerID: "U1", Date: "2025-10-05", Content: "x"})
	require.ErrorIs(t, err, contractx.ErrStoreUnavailable)
}
