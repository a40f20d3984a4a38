package dialogue

import (
	"context"

	replyx "github.com/tanpawarit/Chative-Schedule-Assistant/agent/reply"
	statex "github.com/tanpawarit/Chative-Schedule-Assistant/agent/state"
)

// selectByIndex resolves a 1-based index against a fresh query of every
// appointment the owner has, ordered by date. It is not the list last shown:
// after a range listing, or after the schedule changed, position n can name a
// different record than the one the owner saw.
func (e *Engine) selectByIndex(ctx context.Context, st statex.ConversationState, index int) (Outcome, error) {
	if index < 1 {
		return stay(st, replyx.Notice(replyx.KindInvalidNumber)), nil
	}

	items, err := e.store.QueryByOwner(ctx, st.OwnerID, nil)
	if err != nil {
		return e.unavailable(st, "query schedules for selection", err)
	}
	if index > len(items) {
		return stay(st, replyx.Notice(replyx.KindInvalidNumber)), nil
	}

	picked := items[index-1]
	return Outcome{
		Payload: replyx.About(replyx.KindSelectionEcho, picked),
		Next:    st.AwaitAction(picked.ID),
	}, nil
}
