package schedule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/uptrace/bun"

	contractx "github.com/tanpawarit/Chative-Schedule-Assistant/agent/contract"
)

type appointmentRow struct {
	bun.BaseModel `bun:"table:schedules"`

	ID        int64     `bun:"id,pk,autoincrement"`
	OwnerID   string    `bun:"owner_id,notnull"`
	Date      string    `bun:"schedule_date,notnull"`
	Time      string    `bun:"schedule_time,nullzero"`
	Content   string    `bun:"content,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull"`
}

func (r appointmentRow) toAppointment() contractx.Appointment {
	return contractx.Appointment{
		ID:        strconv.FormatInt(r.ID, 10),
		OwnerID:   r.OwnerID,
		Date:      r.Date,
		Time:      r.Time,
		Content:   r.Content,
		CreatedAt: r.CreatedAt.UTC(),
	}
}

// SQLStore is the bun-backed ScheduleStore. Ids come from the autoincrement
// primary key, which doubles as the stable tiebreak for same-day records.
type SQLStore struct {
	db  *bun.DB
	now func() time.Time
}

var _ contractx.ScheduleStore = (*SQLStore)(nil)

func NewSQLStore(db *bun.DB) *SQLStore {
	return &SQLStore{db: db, now: time.Now}
}

// CreateSchema creates the schedules table and its owner/date index.
func (s *SQLStore) CreateSchema(ctx context.Context) error {
	if _, err := s.db.NewCreateTable().
		Model((*appointmentRow)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("create schedules table: %w", err)
	}
	if _, err := s.db.NewCreateIndex().
		Model((*appointmentRow)(nil)).
		Index("schedules_owner_date_idx").
		Column("owner_id", "schedule_date").
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("create schedules index: %w", err)
	}
	return nil
}

func (s *SQLStore) Add(ctx context.Context, in contractx.NewAppointment) (string, error) {
	if err := validateNew(in); err != nil {
		return "", err
	}

	row := &appointmentRow{
		OwnerID:   in.OwnerID,
		Date:      in.Date,
		Time:      in.Time,
		Content:   in.Content,
		CreatedAt: s.now().UTC(),
	}
	if _, err := s.db.NewInsert().Model(row).Exec(ctx); err != nil {
		return "", fmt.Errorf("%w: insert schedule: %v", contractx.ErrStoreUnavailable, err)
	}
	return strconv.FormatInt(row.ID, 10), nil
}

func (s *SQLStore) Get(ctx context.Context, id string) (contractx.Appointment, error) {
	pk, err := parseID(id)
	if err != nil {
		return contractx.Appointment{}, err
	}

	var row appointmentRow
	err = s.db.NewSelect().
		Model(&row).
		Where("id = ?", pk).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return contractx.Appointment{}, fmt.Errorf("%w: id=%s", contractx.ErrAppointmentNotFound, id)
	}
	if err != nil {
		return contractx.Appointment{}, fmt.Errorf("%w: select schedule: %v", contractx.ErrStoreUnavailable, err)
	}
	return row.toAppointment(), nil
}

func (s *SQLStore) Update(ctx context.Context, id string, patch contractx.AppointmentPatch) error {
	pk, err := parseID(id)
	if err != nil {
		return err
	}
	if patch.IsEmpty() {
		return nil
	}

	q := s.db.NewUpdate().
		Model((*appointmentRow)(nil)).
		Where("id = ?", pk)
	if patch.Date != nil {
		q = q.Set("schedule_date = ?", *patch.Date)
	}
	if patch.Time != nil {
		q = q.Set("schedule_time = ?", nullIfEmpty(*patch.Time))
	}
	if patch.Content != nil {
		q = q.Set("content = ?", *patch.Content)
	}

	res, err := q.Exec(ctx)
	if err != nil {
		return fmt.Errorf("%w: update schedule: %v", contractx.ErrStoreUnavailable, err)
	}
	return requireAffected(res, id)
}

func (s *SQLStore) Delete(ctx context.Context, id string) error {
	pk, err := parseID(id)
	if err != nil {
		return err
	}

	res, err := s.db.NewDelete().
		Model((*appointmentRow)(nil)).
		Where("id = ?", pk).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("%w: delete schedule: %v", contractx.ErrStoreUnavailable, err)
	}
	return requireAffected(res, id)
}

func (s *SQLStore) QueryByOwner(ctx context.Context, ownerID string, rng *contractx.DateRange) ([]contractx.Appointment, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return nil, fmt.Errorf("%w: owner id is empty", contractx.ErrValidation)
	}

	var rows []appointmentRow
	q := s.db.NewSelect().
		Model(&rows).
		Where("owner_id = ?", ownerID)
	if rng != nil {
		q = q.Where("schedule_date >= ?", rng.From).
			Where("schedule_date <= ?", rng.To)
	}
	if err := q.Order("schedule_date ASC", "id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("%w: query schedules: %v", contractx.ErrStoreUnavailable, err)
	}

	out := make([]contractx.Appointment, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toAppointment())
	}
	return out, nil
}

func parseID(id string) (int64, error) {
	pk, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
	if err != nil || pk <= 0 {
		return 0, fmt.Errorf("%w: id=%q", contractx.ErrAppointmentNotFound, id)
	}
	return pk, nil
}

func requireAffected(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: rows affected: %v", contractx.ErrStoreUnavailable, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: id=%s", contractx.ErrAppointmentNotFound, id)
	}
	return nil
}

func nullIfEmpty(v string) any {
	if v == "" {
		return nil
	}
	return v
}

func validateNew(in contractx.NewAppointment) error {
	if strings.TrimSpace(in.OwnerID) == "" {
		return fmt.Errorf("%w: owner id is empty", contractx.ErrValidation)
	}
	if _, err := time.Parse(contractx.DateLayout, in.Date); err != nil {
		return fmt.Errorf("%w: date=%q", contractx.ErrInvalidDate, in.Date)
	}
	if strings.TrimSpace(in.Content) == "" {
		return fmt.Errorf("%w: content is empty", contractx.ErrValidation)
	}
	return nil
}
