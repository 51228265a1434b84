package transcribe

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Run transcribes audioPath, reporting progress between 20 and 88 percent.
// Chunked runs split the audio into fixed-length parts and prefix each
// part's text with "[Bagian i]".
func (o *implOrchestrator) Run(ctx context.Context, audioPath string, opts Options, progress ProgressReporter) (string, error) {
	if progress == nil {
		progress = ReporterFunc(func(int, string) {})
	}
	startTime := time.Now()

	o.logger.Info(ctx, "Starting transcription: %s", filepath.Base(audioPath))

	duration := o.probeDuration(ctx, audioPath)
	if err := o.report(ctx, progress, 20, fmt.Sprintf("Durasi terdeteksi ~%.1f menit", duration/60)); err != nil {
		return "", err
	}

	size := ChooseModel(duration, opts.Mode, opts.ManualModel)
	if err := o.report(ctx, progress, 25, "Pilih model: "+size); err != nil {
		return "", err
	}

	model, err := o.loadModel(ctx, size)
	if err != nil {
		return "", fmt.Errorf("load model %s: %w", size, err)
	}

	var text string
	if opts.Chunk {
		text, err = o.runChunked(ctx, audioPath, model, progress)
	} else {
		text, err = o.runWhole(ctx, audioPath, model, progress)
	}
	if err != nil {
		return "", err
	}

	o.logger.Info(ctx, "Transcription completed in %s (%d chars)", time.Since(startTime).Round(time.Second), len(text))
	return text, nil
}

func (o *implOrchestrator) runWhole(ctx context.Context, audioPath string, model Model, progress ProgressReporter) (string, error) {
	if err := o.report(ctx, progress, 28, "Preprocess audio"); err != nil {
		return "", err
	}
	pre, err := o.preprocess(ctx, audioPath)
	if err != nil {
		return "", err
	}
	defer o.cleanupTempFile(ctx, pre)

	if err := o.report(ctx, progress, 35, "Transkripsi (tanpa potong)…"); err != nil {
		return "", err
	}
	text, err := o.transcribe(ctx, model, pre)
	if err != nil {
		return "", err
	}

	if err := o.report(ctx, progress, 88, "Finalisasi teks"); err != nil {
		return "", err
	}
	return text, nil
}

func (o *implOrchestrator) runChunked(ctx context.Context, audioPath string, model Model, progress ProgressReporter) (string, error) {
	minutes := o.ffmpeg.SegmentSeconds / 60
	if err := o.report(ctx, progress, 28, fmt.Sprintf("Segmentasi audio (tiap %d menit)", minutes)); err != nil {
		return "", err
	}

	dir, err := o.makeSegmentDir()
	if err != nil {
		return "", err
	}
	defer o.cleanupDir(ctx, dir)

	pre, err := o.preprocess(ctx, audioPath)
	if err != nil {
		return "", err
	}
	defer o.cleanupTempFile(ctx, pre)

	parts, err := o.segment(ctx, pre, dir)
	if err != nil {
		return "", err
	}

	n := max(1, len(parts))
	blocks := make([]string, 0, len(parts))
	for i, part := range parts {
		idx := i + 1
		if err := o.report(ctx, progress, 30+55*(idx-1)/n, fmt.Sprintf("Transkrip bagian %d/%d…", idx, n)); err != nil {
			return "", err
		}

		text, err := o.transcribe(ctx, model, part)
		if err != nil {
			return "", fmt.Errorf("part %d/%d: %w", idx, n, err)
		}
		blocks = append(blocks, fmt.Sprintf("[Bagian %d] %s", idx, text))

		if err := o.report(ctx, progress, 30+55*idx/n, fmt.Sprintf("Selesai bagian %d/%d", idx, n)); err != nil {
			return "", err
		}
	}

	if err := o.report(ctx, progress, 88, "Menggabungkan teks"); err != nil {
		return "", err
	}
	return strings.TrimSpace(strings.Join(blocks, "\n")), nil
}

// transcribe runs one recognition call bounded by the configured timeout.
func (o *implOrchestrator) transcribe(ctx context.Context, model Model, audioPath string) (string, error) {
	callCtx := ctx
	if o.whisper.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, o.whisper.Timeout)
		defer cancel()
	}

	segments, err := model.Transcribe(callCtx, Request{
		AudioPath:           audioPath,
		Language:            o.whisper.Language,
		Prompt:              o.whisper.Prompt,
		VADFilter:           true,
		MinSilenceMs:        o.whisper.MinSilenceMs,
		BeamSize:            o.whisper.BeamSize,
		BestOf:              o.whisper.BestOf,
		ConditionOnPrevious: false,
	})
	if err != nil {
		return "", fmt.Errorf("whisper transcribe: %w", err)
	}
	return JoinSegments(segments), nil
}

// JoinSegments concatenates the trimmed segment texts with single spaces.
func JoinSegments(segments []Segment) string {
	texts := make([]string, 0, len(segments))
	for _, s := range segments {
		if t := strings.TrimSpace(s.Text); t != "" {
			texts = append(texts, t)
		}
	}
	return strings.Join(texts, " ")
}

// report forwards a stage update unless ctx has been cancelled.
func (o *implOrchestrator) report(ctx context.Context, progress ProgressReporter, percent int, message string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	progress.Report(percent, message)
	return nil
}
