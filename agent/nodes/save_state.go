package orchestratornode

import (
	"context"
	"errors"
	"fmt"

	contractx "github.com/tanpawarit/Chative-Schedule-Assistant/agent/contract"
	statex "github.com/tanpawarit/Chative-Schedule-Assistant/agent/state"
)

// ValidateAndSaveState writes Outcome.Next when the turn moved the dialogue,
// or when a first non-noop message creates the owner's record.
// A failed write does not undo the reply: the schedule effect has already happened.
func ValidateAndSaveState(
	ctx context.Context,
	in *GraphState,
	store statex.Store,
) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	if in.Halted || in.Session == nil {
		return in, nil
	}

	next := in.Outcome.Next
	changed := !next.Equal(*in.Session)
	if !changed && !(in.Fresh && !in.Intent.IsNoop()) {
		return in, nil
	}

	next.Touch(in.Now)
	if err := next.Validate(); err != nil {
		return nil, fmt.Errorf("state validation failed: %w", err)
	}
	if err := store.Save(ctx, &next); err != nil {
		saveErr := fmt.Errorf("%w: save conversation state: %w", contractx.ErrStoreUnavailable, err)
		in.TurnErr = errors.Join(in.TurnErr, saveErr)
		return in, nil
	}

	in.Session = &next
	return in, nil
}
