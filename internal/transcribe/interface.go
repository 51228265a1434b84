package transcribe

import (
	"context"
	"path/filepath"
	"strings"
)

// Mode selects how the model size is chosen.
type Mode string

const (
	ModeAuto   Mode = "auto"
	ModeManual Mode = "manual"
)

// ProgressReporter receives stage updates of a single run.
type ProgressReporter interface {
	Report(percent int, message string)
}

// ReporterFunc adapts a function to ProgressReporter.
type ReporterFunc func(percent int, message string)

func (f ReporterFunc) Report(percent int, message string) { f(percent, message) }

// Options are the caller choices for one run.
type Options struct {
	Mode        Mode
	ManualModel string
	Chunk       bool
}

// Request is a single speech recognition call.
type Request struct {
	AudioPath           string `json:"audio"`
	Language            string `json:"language"`
	Prompt              string `json:"initial_prompt"`
	VADFilter           bool   `json:"vad_filter"`
	MinSilenceMs        int    `json:"min_silence_ms"`
	BeamSize            int    `json:"beam_size"`
	BestOf              int    `json:"best_of"`
	ConditionOnPrevious bool   `json:"condition_on_previous_text"`
}

// Segment is one timed piece of recognized speech.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Model is a loaded speech recognition model.
type Model interface {
	Transcribe(ctx context.Context, req Request) ([]Segment, error)
	// Alive reports whether the model can still serve requests.
	Alive() bool
	Close() error
}

// Engine loads models for a size, device and precision.
type Engine interface {
	Load(ctx context.Context, size, device, compute string) (Model, error)
}

// Orchestrator turns an audio file into transcript text.
type Orchestrator interface {
	Run(ctx context.Context, audioPath string, opts Options, progress ProgressReporter) (string, error)
	Close() error
}

var audioExtensions = map[string]struct{}{
	".wav": {}, ".mp3": {}, ".m4a": {}, ".aac": {}, ".flac": {}, ".ogg": {},
}

// IsAudioFile reports whether name has a supported audio extension.
func IsAudioFile(name string) bool {
	_, ok := audioExtensions[strings.ToLower(filepath.Ext(name))]
	return ok
}
