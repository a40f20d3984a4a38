package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"
)

type conversationRow struct {
	bun.BaseModel `bun:"table:user_states"`

	OwnerID       string    `bun:"owner_id,pk"`
	Step          string    `bun:"step,notnull"`
	SelectedID    string    `bun:"selected_appointment_id,nullzero"`
	PendingAction string    `bun:"pending_action,nullzero"`
	UpdatedAt     time.Time `bun:"updated_at,notnull"`
}

// SQLStore persists conversation state in the user_states table through bun.
// Works on both the postgres and sqlite dialects.
type SQLStore struct {
	db *bun.DB
}

func NewSQLStore(db *bun.DB) *SQLStore {
	return &SQLStore{db: db}
}

// CreateSchema creates the user_states table if it does not exist.
func (s *SQLStore) CreateSchema(ctx context.Context) error {
	if _, err := s.db.NewCreateTable().
		Model((*conversationRow)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("create user_states table: %w", err)
	}
	return nil
}

func (s *SQLStore) Load(ctx context.Context, ownerID string) (*ConversationState, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return nil, ErrInvalidSession
	}

	var row conversationRow
	err := s.db.NewSelect().
		Model(&row).
		Where("owner_id = ?", ownerID).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select conversation state: %w", err)
	}

	st := row.toState()
	st.Normalize()
	if err := st.Validate(); err != nil {
		return nil, fmt.Errorf("invalid conversation state loaded from store: %w", err)
	}
	return st, nil
}

func (s *SQLStore) Save(ctx context.Context, st *ConversationState) error {
	if st == nil {
		return ErrNilConversationState
	}
	if strings.TrimSpace(st.OwnerID) == "" {
		return ErrInvalidSession
	}
	if st.UpdatedAt.IsZero() {
		st.UpdatedAt = time.Now().UTC()
	}

	row := fromState(st)
	_, err := s.db.NewInsert().
		Model(row).
		On("CONFLICT (owner_id) DO UPDATE").
		Set("step = EXCLUDED.step").
		Set("selected_appointment_id = EXCLUDED.selected_appointment_id").
		Set("pending_action = EXCLUDED.pending_action").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("upsert conversation state: %w", err)
	}
	return nil
}

func (s *SQLStore) Delete(ctx context.Context, ownerID string) error {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return ErrInvalidSession
	}
	if _, err := s.db.NewDelete().
		Model((*conversationRow)(nil)).
		Where("owner_id = ?", ownerID).
		Exec(ctx); err != nil {
		return fmt.Errorf("delete conversation state: %w", err)
	}
	return nil
}

func fromState(st *ConversationState) *conversationRow {
	return &conversationRow{
		OwnerID:       st.OwnerID,
		Step:          string(st.Step),
		SelectedID:    st.SelectedAppointmentID,
		PendingAction: string(st.PendingAction),
		UpdatedAt:     st.UpdatedAt.UTC(),
	}
}

func (r conversationRow) toState() *ConversationState {
	return &ConversationState{
		OwnerID:               r.OwnerID,
		Step:                  DialogueStep(r.Step),
		SelectedAppointmentID: r.SelectedID,
		PendingAction:         PendingAction(r.PendingAction),
		UpdatedAt:             r.UpdatedAt.UTC(),
	}
}
