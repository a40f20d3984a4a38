package state

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ConversationState is the per-owner record of where in a dialogue the owner is.
// Exactly one record exists per owner and every transition overwrites it.
// - SelectedAppointmentID is set iff Step is AwaitingAction or AwaitingEditField.
// - PendingAction is Editing iff Step is AwaitingEditField.
type ConversationState struct {
	OwnerID string `json:"owner_id"`

	Step                  DialogueStep  `json:"step"`
	SelectedAppointmentID string        `json:"selected_appointment_id,omitempty"`
	PendingAction         PendingAction `json:"pending_action,omitempty"`

	UpdatedAt time.Time `json:"updated_at"`
}

type DialogueStep string

const (
	StepIdle              DialogueStep = "idle"
	StepAwaitingSelection DialogueStep = "awaiting_selection"
	StepAwaitingAction    DialogueStep = "awaiting_action"
	StepAwaitingEditField DialogueStep = "awaiting_edit_field"
)

func (s DialogueStep) Valid() bool {
	switch s {
	case StepIdle, StepAwaitingSelection, StepAwaitingAction, StepAwaitingEditField:
		return true
	default:
		return false
	}
}

type PendingAction string

const (
	ActionNone    PendingAction = ""
	ActionEditing PendingAction = "editing"
)

var (
	ErrInvalidStep       = errors.New("invalid dialogue step")
	ErrSelectionMismatch = errors.New("selection does not match dialogue step")
)

// NewConversationState returns the Idle state every owner starts in.
func NewConversationState(ownerID string, now time.Time) *ConversationState {
	return &ConversationState{
		OwnerID:   ownerID,
		Step:      StepIdle,
		UpdatedAt: now.UTC(),
	}
}

func (s *ConversationState) Touch(now time.Time) {
	s.UpdatedAt = now.UTC()
}

// Normalize maps the zero step to Idle so records written without a step load cleanly.
func (s *ConversationState) Normalize() {
	if s.Step == "" {
		s.Step = StepIdle
	}
}

/* ----------------------------- transitions ----------------------------- */

// Idle clears every selection field.
func (s ConversationState) Idle() ConversationState {
	return ConversationState{OwnerID: s.OwnerID, Step: StepIdle, UpdatedAt: s.UpdatedAt}
}

// AwaitSelection expects a 1-based index into the owner's full schedule next.
// The listing itself is not kept; the index is resolved against a fresh query.
func (s ConversationState) AwaitSelection() ConversationState {
	next := s.Idle()
	next.Step = StepAwaitingSelection
	return next
}

func (s ConversationState) AwaitAction(appointmentID string) ConversationState {
	next := s.Idle()
	next.Step = StepAwaitingAction
	next.SelectedAppointmentID = appointmentID
	return next
}

func (s ConversationState) AwaitEditField() ConversationState {
	next := s.Idle()
	next.Step = StepAwaitingEditField
	next.SelectedAppointmentID = s.SelectedAppointmentID
	next.PendingAction = ActionEditing
	return next
}

// Equal compares the dialogue-relevant fields, ignoring UpdatedAt.
func (s ConversationState) Equal(o ConversationState) bool {
	return s.OwnerID == o.OwnerID && s.Step == o.Step &&
		s.SelectedAppointmentID == o.SelectedAppointmentID && s.PendingAction == o.PendingAction
}

func (s *ConversationState) Validate() error {
	if strings.TrimSpace(s.OwnerID) == "" {
		return ErrInvalidSession
	}
	if !s.Step.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStep, s.Step)
	}

	selecting := s.Step == StepAwaitingAction || s.Step == StepAwaitingEditField
	if selecting != (s.SelectedAppointmentID != "") {
		return fmt.Errorf("%w: step=%s selected=%q", ErrSelectionMismatch, s.Step, s.SelectedAppointmentID)
	}
	if (s.Step == StepAwaitingEditField) != (s.PendingAction == ActionEditing) {
		return fmt.Errorf("%w: step=%s pending_action=%q", ErrSelectionMismatch, s.Step, s.PendingAction)
	}
	return nil
}
