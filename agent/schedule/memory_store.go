package schedule

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	contractx "github.com/tanpawarit/Chative-Schedule-Assistant/agent/contract"
)

// MemoryStore is an in-process ScheduleStore with the same ordering contract
// as SQLStore. Ids are a monotonically increasing sequence.
type MemoryStore struct {
	mu      sync.Mutex
	seq     int64
	records map[int64]contractx.Appointment
	now     func() time.Time
}

var _ contractx.ScheduleStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[int64]contractx.Appointment),
		now:     time.Now,
	}
}

func (m *MemoryStore) Add(_ context.Context, in contractx.NewAppointment) (string, error) {
	if err := validateNew(in); err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	id := strconv.FormatInt(m.seq, 10)
	m.records[m.seq] = contractx.Appointment{
		ID:        id,
		OwnerID:   in.OwnerID,
		Date:      in.Date,
		Time:      in.Time,
		Content:   in.Content,
		CreatedAt: m.now().UTC(),
	}
	return id, nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (contractx.Appointment, error) {
	pk, err := parseID(id)
	if err != nil {
		return contractx.Appointment{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[pk]
	if !ok {
		return contractx.Appointment{}, fmt.Errorf("%w: id=%s", contractx.ErrAppointmentNotFound, id)
	}
	return rec, nil
}

func (m *MemoryStore) Update(_ context.Context, id string, patch contractx.AppointmentPatch) error {
	pk, err := parseID(id)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[pk]
	if !ok {
		return fmt.Errorf("%w: id=%s", contractx.ErrAppointmentNotFound, id)
	}
	m.records[pk] = rec.Apply(patch)
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	pk, err := parseID(id)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[pk]; !ok {
		return fmt.Errorf("%w: id=%s", contractx.ErrAppointmentNotFound, id)
	}
	delete(m.records, pk)
	return nil
}

func (m *MemoryStore) QueryByOwner(_ context.Context, ownerID string, rng *contractx.DateRange) ([]contractx.Appointment, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return nil, fmt.Errorf("%w: owner id is empty", contractx.ErrValidation)
	}

	m.mu.Lock()
	type keyed struct {
		pk  int64
		rec contractx.Appointment
	}
	matched := make([]keyed, 0, len(m.records))
	for pk, rec := range m.records {
		if rec.OwnerID != ownerID {
			continue
		}
		if rng != nil && !rng.Contains(rec.Date) {
			continue
		}
		matched = append(matched, keyed{pk: pk, rec: rec})
	}
	m.mu.Unlock()

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].rec.Date != matched[j].rec.Date {
			return matched[i].rec.Date < matched[j].rec.Date
		}
		return matched[i].pk < matched[j].pk
	})

	out := make([]contractx.Appointment, 0, len(matched))
	for _, k := range matched {
		out = append(out, k.rec)
	}
	return out, nil
}
