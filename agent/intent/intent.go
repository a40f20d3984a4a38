package intent

import (
	contractx "github.com/tanpawarit/Chative-Schedule-Assistant/agent/contract"
)

type Kind string

const (
	KindNoop              Kind = "noop"
	KindCancel            Kind = "cancel"
	KindSelectByIndex     Kind = "select_by_index"
	KindChooseAction      Kind = "choose_action"
	KindSupplyEditField   Kind = "supply_edit_field"
	KindCreateAppointment Kind = "create_appointment"
	KindListRange         Kind = "list_range"
)

// Intent is the classified meaning of one inbound message. Only the fields of
// its Kind are populated.
type Intent struct {
	Kind Kind

	// SelectByIndex: 1-based position, 0 when the text was not a positive integer.
	Index int

	// ChooseAction, SupplyEditField: trimmed raw text.
	Text string

	// CreateAppointment.
	Month   int
	Day     int
	Time    string
	Content string

	// ListRange, resolved against the classifier clock.
	Range contractx.DateRange
}

func Noop() Intent { return Intent{Kind: KindNoop} }

func (i Intent) IsNoop() bool { return i.Kind == KindNoop || i.Kind == "" }
