package store

import (
	"context"
	"errors"

	"github.com/sebayufm/notulen/internal/minutes"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// Store persists transcripts, song requests and the broadcast schedule.
type Store interface {
	CreateTranscript(ctx context.Context, t *Transcript) error
	GetTranscript(ctx context.Context, id uint) (*Transcript, error)
	ListTranscripts(ctx context.Context, limit int) ([]Transcript, error)
	UpdateCleaned(ctx context.Context, id uint, cleaned string) error
	UpdateSummary(ctx context.Context, id uint, summary string) error
	UpdateMeta(ctx context.Context, id uint, meta minutes.Meta) error
	// DeleteTranscript removes the row and returns it so callers can drop the audio file.
	DeleteTranscript(ctx context.Context, id uint) (*Transcript, error)

	CreateRequest(ctx context.Context, r *SongRequest) error
	ListRequests(ctx context.Context, limit int) ([]SongRequest, error)

	ScheduleFor(ctx context.Context, dayOfWeek int) ([]ScheduleSlot, error)
	// SeedSchedule inserts slots only when the schedule is empty.
	SeedSchedule(ctx context.Context, slots []ScheduleSlot) error

	Close() error
}
