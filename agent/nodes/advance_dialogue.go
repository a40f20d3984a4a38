package orchestratornode

import (
	"context"
	"fmt"

	contractx "github.com/tanpawarit/Chative-Schedule-Assistant/agent/contract"
	dialoguex "github.com/tanpawarit/Chative-Schedule-Assistant/agent/dialogue"
)

func AdvanceDialogue(
	ctx context.Context,
	in *GraphState,
	engine *dialoguex.Engine,
) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	if in.Halted {
		return in, nil
	}
	if in.Session == nil {
		return nil, fmt.Errorf("%w: graph session is nil", contractx.ErrValidation)
	}

	out, err := engine.Advance(ctx, *in.Session, in.Intent)
	in.Outcome = out
	if err != nil {
		in.TurnErr = err
	}
	return in, nil
}
