package store

import (
	"context"
	"errors"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/sebayufm/notulen/internal/minutes"
)

const defaultListLimit = 100

func clampLimit(limit int) int {
	if limit <= 0 || limit > defaultListLimit {
		return defaultListLimit
	}
	return limit
}

func (s *implStore) CreateTranscript(ctx context.Context, t *Transcript) error {
	if t == nil {
		return errors.New("transcript cannot be nil")
	}
	return s.db.WithContext(ctx).Create(t).Error
}

func (s *implStore) GetTranscript(ctx context.Context, id uint) (*Transcript, error) {
	var t Transcript
	if err := s.db.WithContext(ctx).First(&t, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (s *implStore) ListTranscripts(ctx context.Context, limit int) ([]Transcript, error) {
	var out []Transcript
	err := s.db.WithContext(ctx).
		Omit("transcript", "cleaned_transcript").
		Order("created_at DESC").
		Limit(clampLimit(limit)).
		Find(&out).Error
	return out, err
}

func (s *implStore) UpdateCleaned(ctx context.Context, id uint, cleaned string) error {
	return s.updateColumn(ctx, id, "cleaned_transcript", cleaned)
}

func (s *implStore) UpdateSummary(ctx context.Context, id uint, summary string) error {
	return s.updateColumn(ctx, id, "summary", summary)
}

func (s *implStore) UpdateMeta(ctx context.Context, id uint, meta minutes.Meta) error {
	return s.updateColumn(ctx, id, "minutes_meta", datatypes.NewJSONType(meta))
}

func (s *implStore) updateColumn(ctx context.Context, id uint, column string, value any) error {
	res := s.db.WithContext(ctx).Model(&Transcript{}).Where("id = ?", id).Update(column, value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *implStore) DeleteTranscript(ctx context.Context, id uint) (*Transcript, error) {
	var deleted *Transcript
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var t Transcript
		if err := tx.Select("id", "program", "filename").First(&t, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := tx.Delete(&Transcript{}, id).Error; err != nil {
			return err
		}
		deleted = &t
		return nil
	})
	return deleted, err
}

func (s *implStore) CreateRequest(ctx context.Context, r *SongRequest) error {
	if r == nil {
		return errors.New("request cannot be nil")
	}
	return s.db.WithContext(ctx).Create(r).Error
}

func (s *implStore) ListRequests(ctx context.Context, limit int) ([]SongRequest, error) {
	var out []SongRequest
	err := s.db.WithContext(ctx).Order("created_at DESC").Limit(clampLimit(limit)).Find(&out).Error
	return out, err
}

func (s *implStore) ScheduleFor(ctx context.Context, dayOfWeek int) ([]ScheduleSlot, error) {
	var out []ScheduleSlot
	err := s.db.WithContext(ctx).
		Where("day_of_week = ?", dayOfWeek).
		Order("start_time").
		Find(&out).Error
	return out, err
}

func (s *implStore) SeedSchedule(ctx context.Context, slots []ScheduleSlot) error {
	if len(slots) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&ScheduleSlot{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
		return tx.Create(&slots).Error
	})
}
