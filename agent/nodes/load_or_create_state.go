package orchestratornode

import (
	"context"
	"errors"
	"fmt"
	"time"

	contractx "github.com/tanpawarit/Chative-Schedule-Assistant/agent/contract"
	dialoguex "github.com/tanpawarit/Chative-Schedule-Assistant/agent/dialogue"
	replyx "github.com/tanpawarit/Chative-Schedule-Assistant/agent/reply"
	statex "github.com/tanpawarit/Chative-Schedule-Assistant/agent/state"
)

func LoadOrCreateState(
	ctx context.Context,
	in *GraphState,
	store statex.Store,
) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	st, fresh, err := loadOrCreateState(ctx, store, in.OwnerID, in.Now)
	if err != nil {
		// Without the state we cannot tell which step the message answers.
		in.Halted = true
		in.TurnErr = fmt.Errorf("%w: load conversation state: %w", contractx.ErrStoreUnavailable, err)
		in.Outcome = dialoguex.Outcome{Payload: replyx.Notice(replyx.KindStoreUnavailable)}
		return in, nil
	}
	in.Session = st
	in.Fresh = fresh
	return in, nil
}

func loadOrCreateState(
	ctx context.Context,
	store statex.Store,
	ownerID string,
	now time.Time,
) (*statex.ConversationState, bool, error) {
	st, err := store.Load(ctx, ownerID)
	if err == nil {
		return st, false, nil
	}
	if !errors.Is(err, statex.ErrStateNotFound) {
		return nil, false, err
	}

	return statex.NewConversationState(ownerID, now), true, nil
}
