package orchestratornode

import (
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/Chative-Schedule-Assistant/agent/contract"
	replyx "github.com/tanpawarit/Chative-Schedule-Assistant/agent/reply"
)

func FinalizeReply(in *GraphState, formatter *replyx.Formatter) (GraphOutput, error) {
	if in == nil {
		return GraphOutput{}, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	return GraphOutput{
		Reply:     strings.TrimSpace(formatter.Render(in.Outcome.Payload)),
		ReplyKind: in.Outcome.Payload.Kind,
		Intent:    in.Intent.Kind,
		TurnErr:   in.TurnErr,
	}, nil
}
