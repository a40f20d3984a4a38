package orchestratornode

import (
	"errors"
	"strings"
	"time"

	dialoguex "github.com/tanpawarit/Chative-Schedule-Assistant/agent/dialogue"
	intentx "github.com/tanpawarit/Chative-Schedule-Assistant/agent/intent"
	replyx "github.com/tanpawarit/Chative-Schedule-Assistant/agent/reply"
	statex "github.com/tanpawarit/Chative-Schedule-Assistant/agent/state"
)

var (
	ErrInvalidMessage = errors.New("message is empty")
	ErrInvalidSession = errors.New("owner id is empty")
)

type GraphInput struct {
	OwnerID string
	Text    string
}

// GraphOutput.TurnErr is a recovered failure: the owner still gets Reply.
type GraphOutput struct {
	Reply     string
	ReplyKind replyx.Kind
	Intent    intentx.Kind
	TurnErr   error
}

type GraphState struct {
	OwnerID string
	Text    string
	Now     time.Time

	// Fresh: no stored state existed before this turn.
	// Halted: state could not be loaded; nothing past the load runs.
	Session *statex.ConversationState
	Fresh   bool
	Intent  intentx.Intent
	Outcome dialoguex.Outcome
	Halted  bool
	TurnErr error
}

func ValidateRequest(in GraphInput, nowFn func() time.Time) (*GraphState, error) {
	ownerID := strings.TrimSpace(in.OwnerID)
	if ownerID == "" {
		return nil, ErrInvalidSession
	}

	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, ErrInvalidMessage
	}

	return &GraphState{
		OwnerID: ownerID,
		Text:    text,
		Now:     nowFn().UTC(),
	}, nil
}
