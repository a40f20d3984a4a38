package dialogue

import (
	"context"
	"errors"
	"testing"
	"time"

	contractx "github.com/tanpawarit/Chative-Schedule-Assistant/agent/contract"
	intentx "github.com/tanpawarit/Chative-Schedule-Assistant/agent/intent"
	replyx "github.com/tanpawarit/Chative-Schedule-Assistant/agent/reply"
	schedulex "github.com/tanpawarit/Chative-Schedule-Assistant/agent/schedule"
	statex "github.com/tanpawarit/Chative-Schedule-Assistant/agent/state"
)

var (
	jst       = time.FixedZone("JST", 9*60*60)
	fixedTime = time.Date(2025, time.October, 1, 8, 0, 0, 0, jst)
	october   = contractx.DateRange{From: "2025-10-01", To: "2025-10-31"}
)

// failingStore wraps a working store and fails the named operations.
type failingStore struct {
	contractx.ScheduleStore
	fail  map[string]bool
	calls []string
}

var errDown = errors.New("database is down")

func (f *failingStore) record(op string) error {
	f.calls = append(f.calls, op)
	if f.fail[op] {
		return errDown
	}
	return nil
}

func (f *failingStore) Add(ctx context.Context, in contractx.NewAppointment) (string, error) {
	if err := f.record("add"); err != nil {
		return "", err
	}
	return f.ScheduleStore.Add(ctx, in)
}

func (f *failingStore) Get(ctx context.Context, id string) (contractx.Appointment, error) {
	if err := f.record("get"); err != nil {
		return contractx.Appointment{}, err
	}
	return f.ScheduleStore.Get(ctx, id)
}

func (f *failingStore) Update(ctx context.Context, id string, patch contractx.AppointmentPatch) error {
	if err := f.record("update"); err != nil {
		return err
	}
	return f.ScheduleStore.Update(ctx, id, patch)
}

func (f *failingStore) Delete(ctx context.Context, id string) error {
	if err := f.record("delete"); err != nil {
		return err
	}
	return f.ScheduleStore.Delete(ctx, id)
}

func (f *failingStore) QueryByOwner(ctx context.Context, ownerID string, rng *contractx.DateRange) ([]contractx.Appointment, error) {
	if err := f.record("query"); err != nil {
		return nil, err
	}
	return f.ScheduleStore.QueryByOwner(ctx, ownerID, rng)
}

func newTestEngine(t *testing.T, store contractx.ScheduleStore) *Engine {
	t.Helper()
	e, err := New(store, WithClock(func() time.Time { return fixedTime }), WithLocation(jst))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return e
}

func seed(t *testing.T, store contractx.ScheduleStore, date, content string) string {
	t.Helper()
	id, err := store.Add(context.Background(), contractx.NewAppointment{OwnerID: "U1", Date: date, Content: content})
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	return id
}

func idle() statex.ConversationState {
	return *statex.NewConversationState("U1", fixedTime)
}

func advance(t *testing.T, e *Engine, st statex.ConversationState, in intentx.Intent) Outcome {
	t.Helper()
	out, err := e.Advance(context.Background(), st, in)
	if err != nil {
		t.Fatalf("Advance(%s) error = %v", in.Kind, err)
	}
	return out
}

func TestAdvanceCreateKeepsState(t *testing.T) {
	t.Parallel()

	store := schedulex.NewMemoryStore()
	e := newTestEngine(t, store)

	out := advance(t, e, idle(), intentx.Intent{Kind: intentx.KindCreateAppointment, Month: 10, Day: 5, Time: "14:00", Content: "会議"})

	if out.Payload.Kind != replyx.KindCreated || out.Payload.Appointment == nil {
		t.Fatalf("payload = %+v, want created", out.Payload)
	}
	if got := out.Payload.Appointment; got.Date != "2025-10-05" || got.Time != "14:00" || got.ID == "" {
		t.Fatalf("created = %+v", got)
	}
	if !out.Next.Equal(idle()) {
		t.Fatalf("next = %+v, want unchanged", out.Next)
	}
}

func TestAdvanceCreateRejectsImpossibleDate(t *testing.T) {
	t.Parallel()

	store := &failingStore{ScheduleStore: schedulex.NewMemoryStore()}
	e := newTestEngine(t, store)

	out := advance(t, e, idle(), intentx.Intent{Kind: intentx.KindCreateAppointment, Month: 2, Day: 30, Content: "x"})

	if out.Payload.Kind != replyx.KindInvalidDate {
		t.Fatalf("payload = %+v, want invalid date", out.Payload)
	}
	if len(store.calls) != 0 {
		t.Fatalf("store calls = %v, want none", store.calls)
	}
}

func TestAdvanceListAndSelect(t *testing.T) {
	t.Parallel()

	store := schedulex.NewMemoryStore()
	e := newTestEngine(t, store)
	seed(t, store, "2025-10-20", "b")
	first := seed(t, store, "2025-10-05", "a")
	seed(t, store, "2025-11-01", "outside")

	listed := advance(t, e, idle(), intentx.Intent{Kind: intentx.KindListRange, Range: october})
	if listed.Payload.Kind != replyx.KindListing || len(listed.Payload.Appointments) != 2 {
		t.Fatalf("payload = %+v, want 2-item listing", listed.Payload)
	}
	if listed.Next.Step != statex.StepAwaitingSelection {
		t.Fatalf("next = %+v", listed.Next)
	}

	picked := advance(t, e, listed.Next, intentx.Intent{Kind: intentx.KindSelectByIndex, Index: 1})
	if picked.Payload.Kind != replyx.KindSelectionEcho || picked.Payload.Appointment.ID != first {
		t.Fatalf("payload = %+v, want echo of %s", picked.Payload, first)
	}
	if picked.Next.Step != statex.StepAwaitingAction || picked.Next.SelectedAppointmentID != first {
		t.Fatalf("next = %+v", picked.Next)
	}
}

func TestAdvanceSelectRecomputesAgainstCurrentData(t *testing.T) {
	t.Parallel()

	store := schedulex.NewMemoryStore()
	e := newTestEngine(t, store)
	seed(t, store, "2025-10-20", "late")

	listed := advance(t, e, idle(), intentx.Intent{Kind: intentx.KindListRange, Range: october})

	// A record added after the list was shown shifts positions.
	earlier := seed(t, store, "2025-10-02", "early")

	picked := advance(t, e, listed.Next, intentx.Intent{Kind: intentx.KindSelectByIndex, Index: 1})
	if picked.Payload.Appointment.ID != earlier {
		t.Fatalf("picked %+v, want the record now at position 1", picked.Payload.Appointment)
	}
}

func TestAdvanceSelectIndexesWholeSchedule(t *testing.T) {
	t.Parallel()

	store := schedulex.NewMemoryStore()
	e := newTestEngine(t, store)
	before := seed(t, store, "2025-09-10", "散髪")
	seed(t, store, "2025-10-05", "会議")
	after := seed(t, store, "2025-11-20", "旅行")

	listed := advance(t, e, idle(), intentx.Intent{Kind: intentx.KindListRange, Range: october})
	if len(listed.Payload.Appointments) != 1 {
		t.Fatalf("listing = %+v, want only the October record", listed.Payload.Appointments)
	}

	first := advance(t, e, listed.Next, intentx.Intent{Kind: intentx.KindSelectByIndex, Index: 1})
	if first.Payload.Appointment.ID != before {
		t.Fatalf("index 1 picked %+v, want the earliest record overall", first.Payload.Appointment)
	}

	third := advance(t, e, listed.Next, intentx.Intent{Kind: intentx.KindSelectByIndex, Index: 3})
	if third.Payload.Kind != replyx.KindSelectionEcho || third.Payload.Appointment.ID != after {
		t.Fatalf("index 3 outcome = %+v, want the record outside the listed month", third)
	}
}

func TestAdvanceSelectOutOfRange(t *testing.T) {
	t.Parallel()

	store := schedulex.NewMemoryStore()
	e := newTestEngine(t, store)
	seed(t, store, "2025-10-05", "a")
	st := idle().AwaitSelection()

	for _, index := range []int{0, 2, 99} {
		out := advance(t, e, st, intentx.Intent{Kind: intentx.KindSelectByIndex, Index: index})
		if out.Payload.Kind != replyx.KindInvalidNumber {
			t.Fatalf("index %d payload = %+v, want invalid number", index, out.Payload)
		}
		if !out.Next.Equal(st) {
			t.Fatalf("index %d next = %+v, want unchanged", index, out.Next)
		}
	}
}

func TestAdvanceEmptyListingGoesIdle(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, schedulex.NewMemoryStore())
	st := idle().AwaitAction("3")

	out := advance(t, e, st, intentx.Intent{Kind: intentx.KindListRange, Range: october})
	if out.Payload.Kind != replyx.KindEmptyList || out.Next.Step != statex.StepIdle {
		t.Fatalf("outcome = %+v", out)
	}
}

func TestAdvanceChooseAction(t *testing.T) {
	t.Parallel()

	store := schedulex.NewMemoryStore()
	e := newTestEngine(t, store)
	id := seed(t, store, "2025-10-05", "a")
	st := idle().AwaitAction(id)

	edit := advance(t, e, st, intentx.Intent{Kind: intentx.KindChooseAction, Text: "Edit"})
	if edit.Payload.Kind != replyx.KindFieldPrompt || edit.Next.Step != statex.StepAwaitingEditField {
		t.Fatalf("edit outcome = %+v", edit)
	}
	if edit.Next.SelectedAppointmentID != id || edit.Next.PendingAction != statex.ActionEditing {
		t.Fatalf("edit next = %+v", edit.Next)
	}

	unknown := advance(t, e, st, intentx.Intent{Kind: intentx.KindChooseAction, Text: "maybe"})
	if unknown.Payload.Kind != replyx.KindUnrecognizedAction || !unknown.Next.Equal(st) {
		t.Fatalf("unknown outcome = %+v", unknown)
	}

	del := advance(t, e, st, intentx.Intent{Kind: intentx.KindChooseAction, Text: "削除"})
	if del.Payload.Kind != replyx.KindDeleted || del.Payload.Appointment.Content != "a" || del.Next.Step != statex.StepIdle {
		t.Fatalf("delete outcome = %+v", del)
	}
	if _, err := store.Get(context.Background(), id); !errors.Is(err, contractx.ErrAppointmentNotFound) {
		t.Fatalf("Get() after delete error = %v", err)
	}

	again := advance(t, e, st, intentx.Intent{Kind: intentx.KindChooseAction, Text: "削除"})
	if again.Payload.Kind != replyx.KindNotFound || again.Next.Step != statex.StepIdle {
		t.Fatalf("second delete outcome = %+v, want not found", again)
	}
}

func TestAdvanceSupplyEditField(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  contractx.Appointment
	}{
		{name: "slash date", input: "11/3", want: contractx.Appointment{Date: "2025-11-03", Time: "14:00", Content: "会議"}},
		{name: "dash date", input: "12-1", want: contractx.Appointment{Date: "2025-12-01", Time: "14:00", Content: "会議"}},
		{name: "iso date", input: "2026-01-15", want: contractx.Appointment{Date: "2026-01-15", Time: "14:00", Content: "会議"}},
		{name: "time", input: "9:05", want: contractx.Appointment{Date: "2025-10-05", Time: "9:05", Content: "会議"}},
		{name: "content", input: "打ち合わせ", want: contractx.Appointment{Date: "2025-10-05", Time: "14:00", Content: "打ち合わせ"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			store := schedulex.NewMemoryStore()
			e := newTestEngine(t, store)
			id, err := store.Add(context.Background(), contractx.NewAppointment{OwnerID: "U1", Date: "2025-10-05", Time: "14:00", Content: "会議"})
			if err != nil {
				t.Fatalf("Add() error = %v", err)
			}
			st := idle().AwaitAction(id).AwaitEditField()

			out := advance(t, e, st, intentx.Intent{Kind: intentx.KindSupplyEditField, Text: tc.input})
			if out.Payload.Kind != replyx.KindEdited || out.Next.Step != statex.StepIdle {
				t.Fatalf("outcome = %+v", out)
			}

			got, err := store.Get(context.Background(), id)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if got.Date != tc.want.Date || got.Time != tc.want.Time || got.Content != tc.want.Content {
				t.Fatalf("stored = %+v, want %+v", got, tc.want)
			}
			if *out.Payload.Appointment != got {
				t.Fatalf("echoed %+v, stored %+v", *out.Payload.Appointment, got)
			}
		})
	}
}

func TestAdvanceSupplyEditFieldInvalidDate(t *testing.T) {
	t.Parallel()

	store := &failingStore{ScheduleStore: schedulex.NewMemoryStore()}
	e := newTestEngine(t, store)
	id := seed(t, store, "2025-10-05", "a")
	st := idle().AwaitAction(id).AwaitEditField()

	for _, input := range []string{"2/30", "13/1", "2025-02-29"} {
		out := advance(t, e, st, intentx.Intent{Kind: intentx.KindSupplyEditField, Text: input})
		if out.Payload.Kind != replyx.KindInvalidDate || !out.Next.Equal(st) {
			t.Fatalf("input %q outcome = %+v", input, out)
		}
	}
	for _, op := range store.calls {
		if op == "update" {
			t.Fatalf("store calls = %v, want no update", store.calls)
		}
	}
}

func TestAdvanceCancel(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, schedulex.NewMemoryStore())
	out := advance(t, e, idle().AwaitAction("1").AwaitEditField(), intentx.Intent{Kind: intentx.KindCancel})
	if out.Payload.Kind != replyx.KindCancelled || out.Next.Step != statex.StepIdle || out.Next.SelectedAppointmentID != "" {
		t.Fatalf("outcome = %+v", out)
	}
}

func TestAdvanceNoopIsSilent(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, schedulex.NewMemoryStore())
	st := idle().AwaitSelection()
	out := advance(t, e, st, intentx.Noop())
	if !out.Payload.Silent() || !out.Next.Equal(st) {
		t.Fatalf("outcome = %+v", out)
	}
}

func TestAdvanceStoreFailureResetsToIdle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		fail string
		st   func(id string) statex.ConversationState
		in   intentx.Intent
	}{
		{name: "create", fail: "add", st: func(string) statex.ConversationState { return idle() }, in: intentx.Intent{Kind: intentx.KindCreateAppointment, Month: 10, Day: 5, Content: "x"}},
		{name: "list", fail: "query", st: func(string) statex.ConversationState { return idle() }, in: intentx.Intent{Kind: intentx.KindListRange, Range: october}},
		{name: "select", fail: "query", st: func(string) statex.ConversationState { return idle().AwaitSelection() }, in: intentx.Intent{Kind: intentx.KindSelectByIndex, Index: 1}},
		{name: "delete", fail: "delete", st: func(id string) statex.ConversationState { return idle().AwaitAction(id) }, in: intentx.Intent{Kind: intentx.KindChooseAction, Text: "削除"}},
		{name: "edit", fail: "update", st: func(id string) statex.ConversationState { return idle().AwaitAction(id).AwaitEditField() }, in: intentx.Intent{Kind: intentx.KindSupplyEditField, Text: "x"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			inner := schedulex.NewMemoryStore()
			id := seed(t, inner, "2025-10-05", "a")
			store := &failingStore{ScheduleStore: inner, fail: map[string]bool{tc.fail: true}}
			e := newTestEngine(t, store)

			out, err := e.Advance(context.Background(), tc.st(id), tc.in)
			if !errors.Is(err, contractx.ErrStoreUnavailable) || !errors.Is(err, errDown) {
				t.Fatalf("Advance() error = %v, want wrapped store failure", err)
			}
			if out.Payload.Kind != replyx.KindStoreUnavailable || out.Next.Step != statex.StepIdle {
				t.Fatalf("outcome = %+v", out)
			}
		})
	}
}

func TestNewRequiresStore(t *testing.T) {
	t.Parallel()

	if _, err := New(nil); err == nil {
		t.Fatal("New(nil) error = nil")
	}
}
