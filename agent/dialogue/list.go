package dialogue

import (
	"context"

	contractx "github.com/tanpawarit/Chative-Schedule-Assistant/agent/contract"
	replyx "github.com/tanpawarit/Chative-Schedule-Assistant/agent/reply"
	statex "github.com/tanpawarit/Chative-Schedule-Assistant/agent/state"
)

// list shows the owner's records in rng. Nothing about the listing is kept for
// the selection that may follow.
func (e *Engine) list(ctx context.Context, st statex.ConversationState, rng contractx.DateRange) (Outcome, error) {
	items, err := e.store.QueryByOwner(ctx, st.OwnerID, &rng)
	if err != nil {
		return e.unavailable(st, "query schedules for listing", err)
	}
	if len(items) == 0 {
		return Outcome{Payload: replyx.Notice(replyx.KindEmptyList), Next: st.Idle()}, nil
	}
	return Outcome{
		Payload: replyx.Listing(items),
		Next:    st.AwaitSelection(),
	}, nil
}
