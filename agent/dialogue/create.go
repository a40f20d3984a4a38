package dialogue

import (
	"context"

	contractx "github.com/tanpawarit/Chative-Schedule-Assistant/agent/contract"
	intentx "github.com/tanpawarit/Chative-Schedule-Assistant/agent/intent"
	replyx "github.com/tanpawarit/Chative-Schedule-Assistant/agent/reply"
	statex "github.com/tanpawarit/Chative-Schedule-Assistant/agent/state"
)

// create resolves month/day in the current year. It leaves the dialogue state as is.
func (e *Engine) create(ctx context.Context, st statex.ConversationState, in intentx.Intent) (Outcome, error) {
	now := e.today()
	day, ok := contractx.CalendarDate(now.Year(), in.Month, in.Day, e.loc)
	if !ok {
		return stay(st, replyx.Notice(replyx.KindInvalidDate)), nil
	}

	rec := contractx.NewAppointment{
		OwnerID: st.OwnerID,
		Date:    day.Format(contractx.DateLayout),
		Time:    in.Time,
		Content: in.Content,
	}
	id, err := e.store.Add(ctx, rec)
	if err != nil {
		return e.unavailable(st, "add schedule", err)
	}

	return stay(st, replyx.About(replyx.KindCreated, contractx.Appointment{
		ID:        id,
		OwnerID:   rec.OwnerID,
		Date:      rec.Date,
		Time:      rec.Time,
		Content:   rec.Content,
		CreatedAt: now.UTC(),
	})), nil
}
