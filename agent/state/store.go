package state

import (
	"context"
	"errors"
)

var (
	ErrStateNotFound        = errors.New("conversation state not found")
	ErrNilConversationState = errors.New("conversation state is nil")
	ErrInvalidSession       = errors.New("owner id is empty")
)

// Store is the conversation state persistence contract. There is at most one
// record per owner and Save replaces it whole; concurrent writers resolve
// last-write-wins. A missing record is reported as ErrStateNotFound and means Idle.
type Store interface {
	Load(ctx context.Context, ownerID string) (*ConversationState, error)
	Save(ctx context.Context, st *ConversationState) error
	Delete(ctx context.Context, ownerID string) error
}
