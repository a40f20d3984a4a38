package dialogue

import (
	"context"
	"errors"
	"fmt"
	"time"

	contractx "github.com/tanpawarit/Chative-Schedule-Assistant/agent/contract"
	intentx "github.com/tanpawarit/Chative-Schedule-Assistant/agent/intent"
	replyx "github.com/tanpawarit/Chative-Schedule-Assistant/agent/reply"
	statex "github.com/tanpawarit/Chative-Schedule-Assistant/agent/state"
)

// Outcome is the result of one turn: what to tell the owner and the state to
// persist. Next equals the input state when the turn does not move the dialogue.
type Outcome struct {
	Payload replyx.Payload
	Next    statex.ConversationState
}

// Engine advances one owner's dialogue. It reads and writes the schedule
// store but never the conversation state store: the caller loads the state,
// calls Advance, and persists Outcome.Next.
type Engine struct {
	store contractx.ScheduleStore
	now   func() time.Time
	loc   *time.Location
}

type Option func(*Engine)

func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

func WithLocation(loc *time.Location) Option {
	return func(e *Engine) {
		if loc != nil {
			e.loc = loc
		}
	}
}

func New(store contractx.ScheduleStore, opts ...Option) (*Engine, error) {
	if store == nil {
		return nil, errors.New("schedule store is required")
	}
	e := &Engine{
		store: store,
		now:   time.Now,
		loc:   time.Local,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e, nil
}

// Advance applies in to st. A non-nil error is always accompanied by a
// usable Outcome (a store-unavailable reply and an Idle state); the error is
// returned for logging only.
func (e *Engine) Advance(ctx context.Context, st statex.ConversationState, in intentx.Intent) (Outcome, error) {
	switch in.Kind {
	case intentx.KindNoop, "":
		return stay(st, replyx.None()), nil
	case intentx.KindCancel:
		return Outcome{Payload: replyx.Notice(replyx.KindCancelled), Next: st.Idle()}, nil
	case intentx.KindSelectByIndex:
		return e.selectByIndex(ctx, st, in.Index)
	case intentx.KindChooseAction:
		return e.chooseAction(ctx, st, in.Text)
	case intentx.KindSupplyEditField:
		return e.supplyEditField(ctx, st, in.Text)
	case intentx.KindCreateAppointment:
		return e.create(ctx, st, in)
	case intentx.KindListRange:
		return e.list(ctx, st, in.Range)
	default:
		return stay(st, replyx.None()), fmt.Errorf("%w: unknown intent=%q", contractx.ErrValidation, in.Kind)
	}
}

func stay(st statex.ConversationState, p replyx.Payload) Outcome {
	return Outcome{Payload: p, Next: st}
}

func (e *Engine) unavailable(st statex.ConversationState, op string, err error) (Outcome, error) {
	out := Outcome{
		Payload: replyx.Notice(replyx.KindStoreUnavailable),
		Next:    st.Idle(),
	}
	if errors.Is(err, contractx.ErrStoreUnavailable) {
		return out, fmt.Errorf("%s: %w", op, err)
	}
	return out, fmt.Errorf("%w: %s: %w", contractx.ErrStoreUnavailable, op, err)
}

// vanished handles a selection whose record was deleted behind the dialogue.
func vanished(st statex.ConversationState) Outcome {
	return Outcome{Payload: replyx.Notice(replyx.KindNotFound), Next: st.Idle()}
}

func (e *Engine) today() time.Time {
	return e.now().In(e.loc)
}
