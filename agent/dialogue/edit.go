package dialogue

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"time"

	contractx "github.com/tanpawarit/Chative-Schedule-Assistant/agent/contract"
	replyx "github.com/tanpawarit/Chative-Schedule-Assistant/agent/reply"
	statex "github.com/tanpawarit/Chative-Schedule-Assistant/agent/state"
)

var (
	shortDatePattern = regexp.MustCompile(`^(\d{1,2})[/-](\d{1,2})$`)
	isoDatePattern   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	clockPattern     = regexp.MustCompile(`^\d{1,2}:\d{2}$`)
)

// fieldPatch maps edit input to exactly one field. Shapes are tried in order
// date, time, content; content never fails. ok is false only for a date-shaped
// input that is not a real calendar day.
func (e *Engine) fieldPatch(text string) (contractx.AppointmentPatch, bool) {
	if m := shortDatePattern.FindStringSubmatch(text); m != nil {
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		t, ok := contractx.CalendarDate(e.today().Year(), month, day, e.loc)
		if !ok {
			return contractx.AppointmentPatch{}, false
		}
		date := t.Format(contractx.DateLayout)
		return contractx.AppointmentPatch{Date: &date}, true
	}
	if isoDatePattern.MatchString(text) {
		if _, err := time.Parse(contractx.DateLayout, text); err != nil {
			return contractx.AppointmentPatch{}, false
		}
		date := text
		return contractx.AppointmentPatch{Date: &date}, true
	}
	if clockPattern.MatchString(text) {
		clock := text
		return contractx.AppointmentPatch{Time: &clock}, true
	}
	content := text
	return contractx.AppointmentPatch{Content: &content}, true
}

func (e *Engine) supplyEditField(ctx context.Context, st statex.ConversationState, text string) (Outcome, error) {
	selected, err := e.store.Get(ctx, st.SelectedAppointmentID)
	if errors.Is(err, contractx.ErrAppointmentNotFound) {
		return vanished(st), nil
	}
	if err != nil {
		return e.unavailable(st, "load selected schedule", err)
	}

	patch, ok := e.fieldPatch(text)
	if !ok {
		return stay(st, replyx.Notice(replyx.KindInvalidDate)), nil
	}

	err = e.store.Update(ctx, selected.ID, patch)
	if errors.Is(err, contractx.ErrAppointmentNotFound) {
		return vanished(st), nil
	}
	if err != nil {
		return e.unavailable(st, "update schedule", err)
	}

	return Outcome{
		Payload: replyx.About(replyx.KindEdited, selected.Apply(patch)),
		Next:    st.Idle(),
	}, nil
}
