// Package httpapi exposes the transcription, minutes and chatbot operations
// as a JSON API.
package httpapi

import (
	"context"

	"github.com/sebayufm/notulen/internal/jobs"
	"github.com/sebayufm/notulen/internal/minutes"
)

// Jobs is the part of jobs.Runner the API drives.
type Jobs interface {
	Submit(ctx context.Context, req jobs.Request) (string, error)
	Progress(ctx context.Context, jobID string) (jobs.Progress, error)
	Clean(ctx context.Context, id uint) (string, error)
	Resummarize(ctx context.Context, id uint) (string, error)
}

// DocumentWriter renders official minutes to a .docx file.
type DocumentWriter interface {
	Write(ctx context.Context, o minutes.Official, meta minutes.Meta, outputPath string) error
}
