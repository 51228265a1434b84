package watcher

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sebayufm/notulen/internal/jobs"
	"github.com/sebayufm/notulen/internal/logger"
	"github.com/sebayufm/notulen/internal/transcribe"
)

const defaultProgram = "Tanpa Nama"

// Submitter queues transcription jobs.
type Submitter interface {
	Submit(ctx context.Context, req jobs.Request) (string, error)
}

// SubmitHandler returns an EventHandler that moves each recording into
// uploadsDir and queues it as an auto mode job with a summary.
func SubmitHandler(sub Submitter, uploadsDir string, chunk bool, log logger.Logger) EventHandler {
	return func(ctx context.Context, path string) error {
		dest := jobs.UploadPath(uploadsDir, filepath.Base(path))
		if err := moveFile(path, dest); err != nil {
			return fmt.Errorf("move to uploads: %w", err)
		}

		req := jobs.Request{
			AudioPath: dest,
			Filename:  filepath.Base(dest),
			Program:   ProgramFromFilename(path),
			Options:   transcribe.Options{Mode: transcribe.ModeAuto, Chunk: chunk},
			Summarize: true,
		}
		jobID, err := sub.Submit(ctx, req)
		if err != nil {
			return err
		}
		log.Info(ctx, "Inbox file %s queued as job %s", filepath.Base(path), jobID)
		return nil
	}
}

// ProgramFromFilename derives a program name from a recording file name,
// e.g. "warta_pagi.mp3" becomes "warta pagi".
func ProgramFromFilename(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.NewReplacer("_", " ", "-", " ").Replace(base)
	base = strings.Join(strings.Fields(base), " ")
	if base == "" {
		return defaultProgram
	}
	return base
}

// moveFile renames src to dst, copying when they sit on different devices.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Remove(src)
}
