// Package jobs runs transcription jobs in the background and tracks their progress.
package jobs

import (
	"github.com/sebayufm/notulen/internal/transcribe"
)

// Request describes an uploaded recording to transcribe.
type Request struct {
	AudioPath string
	Filename  string
	Program   string
	Options   transcribe.Options
	Summarize bool
}
