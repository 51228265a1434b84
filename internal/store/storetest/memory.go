// Package storetest provides an in-memory store.Store for tests.
package storetest

import (
	"context"
	"sort"
	"sync"
	"time"

	"gorm.io/datatypes"

	"github.com/sebayufm/notulen/internal/minutes"
	"github.com/sebayufm/notulen/internal/store"
)

// Memory is a map backed store.Store. Err, when set, is returned by every call.
type Memory struct {
	mu          sync.Mutex
	nextID      uint
	transcripts map[uint]store.Transcript
	requests    []store.SongRequest
	schedule    []store.ScheduleSlot

	Err error
}

var _ store.Store = (*Memory)(nil)

// NewMemory creates an empty store.
func NewMemory() *Memory {
	return &Memory{transcripts: make(map[uint]store.Transcript)}
}

func (m *Memory) id() uint {
	m.nextID++
	return m.nextID
}

func (m *Memory) CreateTranscript(_ context.Context, t *store.Transcript) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	t.ID = m.id()
	now := time.Now()
	t.CreatedAt, t.UpdatedAt = now, now
	m.transcripts[t.ID] = *t
	return nil
}

func (m *Memory) GetTranscript(_ context.Context, id uint) (*store.Transcript, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	t, ok := m.transcripts[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &t, nil
}

func (m *Memory) ListTranscripts(_ context.Context, limit int) ([]store.Transcript, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]store.Transcript, 0, len(m.transcripts))
	for _, t := range m.transcripts {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *Memory) update(id uint, fn func(t *store.Transcript)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	t, ok := m.transcripts[id]
	if !ok {
		return store.ErrNotFound
	}
	fn(&t)
	t.UpdatedAt = time.Now()
	m.transcripts[id] = t
	return nil
}

func (m *Memory) UpdateCleaned(_ context.Context, id uint, cleaned string) error {
	return m.update(id, func(t *store.Transcript) { t.Cleaned = &cleaned })
}

func (m *Memory) UpdateSummary(_ context.Context, id uint, summary string) error {
	return m.update(id, func(t *store.Transcript) { t.Summary = &summary })
}

func (m *Memory) UpdateMeta(_ context.Context, id uint, meta minutes.Meta) error {
	return m.update(id, func(t *store.Transcript) { t.Meta = datatypes.NewJSONType(meta) })
}

func (m *Memory) DeleteTranscript(_ context.Context, id uint) (*store.Transcript, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	t, ok := m.transcripts[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	delete(m.transcripts, id)
	return &t, nil
}

func (m *Memory) CreateRequest(_ context.Context, r *store.SongRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	r.ID = m.id()
	r.CreatedAt = time.Now()
	if r.Status == "" {
		r.Status = "baru"
	}
	m.requests = append(m.requests, *r)
	return nil
}

func (m *Memory) ListRequests(_ context.Context, limit int) ([]store.SongRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]store.SongRequest, 0, len(m.requests))
	for i := len(m.requests) - 1; i >= 0; i-- {
		out = append(out, m.requests[i])
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *Memory) ScheduleFor(_ context.Context, dayOfWeek int) ([]store.ScheduleSlot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	var out []store.ScheduleSlot
	for _, s := range m.schedule {
		if s.DayOfWeek == dayOfWeek {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartTime < out[j].StartTime })
	return out, nil
}

func (m *Memory) SeedSchedule(_ context.Context, slots []store.ScheduleSlot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if len(m.schedule) > 0 {
		return nil
	}
	for _, s := range slots {
		s.ID = m.id()
		m.schedule = append(m.schedule, s)
	}
	return nil
}

func (m *Memory) Close() error { return nil }
