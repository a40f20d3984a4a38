package dialogue

import (
	"context"
	"errors"
	"strings"

	contractx "github.com/tanpawarit/Chative-Schedule-Assistant/agent/contract"
	replyx "github.com/tanpawarit/Chative-Schedule-Assistant/agent/reply"
	statex "github.com/tanpawarit/Chative-Schedule-Assistant/agent/state"
)

type action int

const (
	actionUnknown action = iota
	actionEdit
	actionDelete
)

func parseAction(text string) action {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "編集", "edit":
		return actionEdit
	case "削除", "delete":
		return actionDelete
	default:
		return actionUnknown
	}
}

func (e *Engine) chooseAction(ctx context.Context, st statex.ConversationState, text string) (Outcome, error) {
	act := parseAction(text)
	if act == actionUnknown {
		return stay(st, replyx.Notice(replyx.KindUnrecognizedAction)), nil
	}

	selected, err := e.store.Get(ctx, st.SelectedAppointmentID)
	if errors.Is(err, contractx.ErrAppointmentNotFound) {
		return vanished(st), nil
	}
	if err != nil {
		return e.unavailable(st, "load selected schedule", err)
	}

	if act == actionEdit {
		return Outcome{
			Payload: replyx.Notice(replyx.KindFieldPrompt),
			Next:    st.AwaitEditField(),
		}, nil
	}

	err = e.store.Delete(ctx, selected.ID)
	if errors.Is(err, contractx.ErrAppointmentNotFound) {
		return vanished(st), nil
	}
	if err != nil {
		return e.unavailable(st, "delete schedule", err)
	}
	return Outcome{
		Payload: replyx.About(replyx.KindDeleted, selected),
		Next:    st.Idle(),
	}, nil
}
