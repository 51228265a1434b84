package store

import (
	"time"

	"gorm.io/datatypes"

	"github.com/sebayufm/notulen/internal/minutes"
)

// Transcript is a stored transcription result.
type Transcript struct {
	ID         uint                             `json:"id" gorm:"primaryKey"`
	Program    string                           `json:"program" gorm:"type:text;not null"`
	Filename   string                           `json:"filename" gorm:"type:text;not null"`
	Transcript string                           `json:"transcript" gorm:"column:transcript;type:text;not null"`
	Summary    *string                          `json:"summary,omitempty" gorm:"type:text"`
	Cleaned    *string                          `json:"cleaned_transcript,omitempty" gorm:"column:cleaned_transcript;type:text"`
	Meta       datatypes.JSONType[minutes.Meta] `json:"minutes_meta" gorm:"column:minutes_meta;type:jsonb"`
	CreatedAt  time.Time                        `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time                        `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Transcript) TableName() string {
	return "transcripts"
}

// Source returns the classifier input of the transcript. The cleaned text is
// preferred when present.
func (t *Transcript) Source() minutes.Source {
	src := minutes.Source{
		Transcript: t.Transcript,
		Program:    t.Program,
		CreatedAt:  t.CreatedAt.Local().Format(minutes.CreatedAtLayout),
	}
	if t.Cleaned != nil && *t.Cleaned != "" {
		src.Transcript = *t.Cleaned
	}
	if t.Summary != nil {
		src.Summary = *t.Summary
	}
	return src
}

// SongRequest is a listener request received through the chatbot.
type SongRequest struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Username  string    `json:"username" gorm:"type:text;not null"`
	Platform  string    `json:"platform" gorm:"type:text;not null"`
	Message   string    `json:"message" gorm:"type:text;not null"`
	Status    string    `json:"status" gorm:"type:text;not null;default:baru"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for GORM
func (SongRequest) TableName() string {
	return "song_requests"
}

// ScheduleSlot is one broadcast slot. DayOfWeek is 0=Monday .. 6=Sunday and
// times are "HH:MM".
type ScheduleSlot struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	DayOfWeek int    `json:"day_of_week" gorm:"not null"`
	StartTime string `json:"start_time" gorm:"type:text;not null"`
	EndTime   string `json:"end_time" gorm:"type:text;not null"`
	Program   string `json:"program" gorm:"type:text;not null"`
	Host      string `json:"host" gorm:"type:text;not null;default:''"`
}

// TableName specifies the table name for GORM
func (ScheduleSlot) TableName() string {
	return "schedule_slots"
}
