package orchestratornode

import (
	"fmt"

	contractx "github.com/tanpawarit/Chative-Schedule-Assistant/agent/contract"
	intentx "github.com/tanpawarit/Chative-Schedule-Assistant/agent/intent"
)

func ClassifyIntent(in *GraphState, classifier *intentx.Classifier) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	if in.Halted {
		return in, nil
	}
	if in.Session == nil {
		return nil, fmt.Errorf("%w: graph session is nil", contractx.ErrValidation)
	}

	in.Intent = classifier.Classify(in.Session.Step, in.Text)
	return in, nil
}
