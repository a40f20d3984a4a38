package reply

import (
	contractx "github.com/tanpawarit/Chative-Schedule-Assistant/agent/contract"
)

type Kind string

const (
	KindNone               Kind = ""
	KindSelectionEcho      Kind = "selection_echo"
	KindFieldPrompt        Kind = "field_prompt"
	KindUnrecognizedAction Kind = "unrecognized_action"
	KindDeleted            Kind = "deleted"
	KindEdited             Kind = "edited"
	KindCreated            Kind = "created"
	KindListing            Kind = "listing"
	KindEmptyList          Kind = "empty_list"
	KindInvalidNumber      Kind = "invalid_number"
	KindInvalidDate        Kind = "invalid_date"
	KindNotFound           Kind = "not_found"
	KindCancelled          Kind = "cancelled"
	KindStoreUnavailable   Kind = "store_unavailable"
)

// Payload is the domain result of one dialogue turn, before rendering.
type Payload struct {
	Kind         Kind
	Appointment  *contractx.Appointment
	Appointments []contractx.Appointment
}

func None() Payload { return Payload{Kind: KindNone} }

func Notice(kind Kind) Payload { return Payload{Kind: kind} }

func About(kind Kind, a contractx.Appointment) Payload {
	return Payload{Kind: kind, Appointment: &a}
}

func Listing(items []contractx.Appointment) Payload {
	return Payload{Kind: KindListing, Appointments: items}
}

func (p Payload) Silent() bool { return p.Kind == KindNone }
