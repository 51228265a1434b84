package transcribe

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// probeDuration returns the media duration in seconds, or 0 when ffprobe
// fails or prints something unparsable.
func (o *implOrchestrator) probeDuration(ctx context.Context, path string) float64 {
	args := []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	}

	out, err := o.executor.Execute(ctx, o.ffmpeg.ProbeBinary, args...)
	if err != nil {
		o.logger.Error(ctx, "ffprobe error: %v", err)
		return 0
	}

	d, err := strconv.ParseFloat(strings.TrimSpace(out), 64)
	if err != nil {
		o.logger.Error(ctx, "ffprobe parse error: %v", err)
		return 0
	}
	return d
}

// preprocess resamples the input to a 16kHz mono loudness-normalized WAV
// in the temp directory. The output name is unique per call so two jobs
// for files with the same base name never share it.
func (o *implOrchestrator) preprocess(ctx context.Context, inPath string) (string, error) {
	if err := os.MkdirAll(o.tempDir, 0o755); err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}

	base := strings.TrimSuffix(filepath.Base(inPath), filepath.Ext(inPath))
	f, err := os.CreateTemp(o.tempDir, base+"_*__16k.wav")
	if err != nil {
		return "", fmt.Errorf("create preprocess file: %w", err)
	}
	outPath := f.Name()
	f.Close()

	o.logger.Info(ctx, "Preprocessing audio: %s", inPath)

	// -ac 1: mono, -ar 16000: 16kHz, -vn: drop any video stream
	args := []string{
		"-y",
		"-i", inPath,
		"-ac", "1",
		"-ar", "16000",
		"-vn",
		"-af", o.ffmpeg.Loudnorm,
		outPath,
	}

	if _, err := o.executor.Execute(ctx, o.ffmpeg.Binary, args...); err != nil {
		o.cleanupTempFile(ctx, outPath)
		return "", fmt.Errorf("ffmpeg preprocess: %w", err)
	}
	return outPath, nil
}

// segment splits a preprocessed file into fixed-length parts inside dir
// using stream copy, and returns the parts in order. ffmpeg runs inside dir
// so the part pattern stays relative.
func (o *implOrchestrator) segment(ctx context.Context, prePath, dir string) ([]string, error) {
	args := []string{
		"-y",
		"-i", prePath,
		"-f", "segment",
		"-segment_time", strconv.Itoa(o.ffmpeg.SegmentSeconds),
		"-c", "copy",
		"part_%03d.wav",
	}

	if _, err := o.executor.ExecuteInDir(ctx, dir, o.ffmpeg.Binary, args...); err != nil {
		return nil, fmt.Errorf("ffmpeg segment: %w", err)
	}

	parts, err := filepath.Glob(filepath.Join(dir, "part_*.wav"))
	if err != nil {
		return nil, fmt.Errorf("list segments: %w", err)
	}
	sort.Strings(parts)
	return parts, nil
}

// makeSegmentDir creates a fresh directory for segment parts.
func (o *implOrchestrator) makeSegmentDir() (string, error) {
	if err := os.MkdirAll(o.tempDir, 0o755); err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}
	dir, err := os.MkdirTemp(o.tempDir, "segments_")
	if err != nil {
		return "", fmt.Errorf("create segment dir: %w", err)
	}
	return dir, nil
}
