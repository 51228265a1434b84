package jobs

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/sebayufm/notulen/internal/logger"
	"github.com/sebayufm/notulen/internal/minutes"
	"github.com/sebayufm/notulen/internal/store"
	"github.com/sebayufm/notulen/internal/summary"
	"github.com/sebayufm/notulen/internal/textclean"
	"github.com/sebayufm/notulen/internal/transcribe"
)

// Runner executes transcription jobs, one goroutine per job, with at most
// maxConcurrent of them transcribing at once.
type Runner struct {
	orchestrator transcribe.Orchestrator
	summarizer   summary.Summarizer
	store        store.Store
	progress     ProgressStore
	logger       logger.Logger
	slots        slots

	base    context.Context
	stop    context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
	cancels map[string]context.CancelFunc
}

// NewRunner creates a Runner. summarizer may be nil when summaries are never requested.
func NewRunner(orch transcribe.Orchestrator, sum summary.Summarizer, st store.Store, progress ProgressStore, maxConcurrent int, log logger.Logger) *Runner {
	base, stop := context.WithCancel(context.Background())
	return &Runner{
		orchestrator: orch,
		summarizer:   sum,
		store:        st,
		progress:     progress,
		logger:       log,
		slots:        newSlots(maxConcurrent),
		base:         base,
		stop:         stop,
		cancels:      make(map[string]context.CancelFunc),
	}
}

// Submit records the upload and starts the job in the background. The job
// is not bound to ctx; use Cancel to stop it.
func (r *Runner) Submit(ctx context.Context, req Request) (string, error) {
	jobID := uuid.NewString()
	if err := r.progress.Set(ctx, jobID, Progress{Percent: 5, Message: "Unggahan diterima"}); err != nil {
		return "", fmt.Errorf("record progress: %w", err)
	}

	jobCtx, cancel := context.WithCancel(logger.WithJob(r.base, jobID))
	r.mu.Lock()
	r.cancels[jobID] = cancel
	r.mu.Unlock()

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer r.forget(jobID)
		r.run(jobCtx, jobID, req)
	}()

	r.logger.Info(jobCtx, "Job queued: %s (%s)", req.Filename, req.Program)
	return jobID, nil
}

// Progress returns the last recorded state of a job.
func (r *Runner) Progress(ctx context.Context, jobID string) (Progress, error) {
	return r.progress.Get(ctx, jobID)
}

// Cancel stops a running job. It reports whether the job was running.
func (r *Runner) Cancel(jobID string) bool {
	r.mu.Lock()
	cancel, ok := r.cancels[jobID]
	r.mu.Unlock()
	if ok {
		cancel()
	}
	return ok
}

// Running returns how many jobs are currently transcribing.
func (r *Runner) Running() int {
	return r.slots.busy()
}

// Wait blocks until every submitted job has finished.
func (r *Runner) Wait() {
	r.wg.Wait()
}

// Shutdown cancels all jobs and waits for them to record their final state.
func (r *Runner) Shutdown() {
	r.stop()
	r.wg.Wait()
}

func (r *Runner) forget(jobID string) {
	r.mu.Lock()
	cancel := r.cancels[jobID]
	delete(r.cancels, jobID)
	r.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (r *Runner) run(ctx context.Context, jobID string, req Request) {
	if err := r.slots.take(ctx); err != nil {
		r.fail(ctx, jobID, err)
		return
	}
	defer r.slots.give()

	r.set(ctx, jobID, 10, "Mulai proses")

	reporter := transcribe.ReporterFunc(func(percent int, message string) {
		r.set(ctx, jobID, percent, message)
	})
	text, err := r.orchestrator.Run(ctx, req.AudioPath, req.Options, reporter)
	if err != nil {
		r.fail(ctx, jobID, err)
		return
	}

	var sum *string
	if req.Summarize {
		r.set(ctx, jobID, 92, "Merangkum…")
		s := r.summarize(ctx, text)
		sum = &s
	}

	if err := ctx.Err(); err != nil {
		r.fail(ctx, jobID, err)
		return
	}
	r.set(ctx, jobID, 98, "Menyimpan ke database")

	cleaned := textclean.Clean(text, true)
	t := &store.Transcript{
		Program:    req.Program,
		Filename:   req.Filename,
		Transcript: text,
		Summary:    sum,
		Cleaned:    &cleaned,
		Meta:       datatypes.NewJSONType(minutes.Meta{}),
	}
	if err := r.store.CreateTranscript(ctx, t); err != nil {
		r.fail(ctx, jobID, fmt.Errorf("save transcript: %w", err))
		return
	}

	tid := t.ID
	r.record(ctx, jobID, Progress{Percent: 100, Message: "Selesai", Done: true, ResultID: &tid})
	r.logger.Info(ctx, "Job finished: transcript %d", tid)
}

// summarize never fails the job; errors become a failure marker summary.
func (r *Runner) summarize(ctx context.Context, text string) string {
	if r.summarizer == nil {
		return "[Gagal merangkum: no summarizer configured]"
	}
	s, err := r.summarizer.Summarize(ctx, text)
	if err != nil {
		r.logger.Warn(ctx, "Summary failed: %v", err)
		return fmt.Sprintf("[Gagal merangkum: %v]", err)
	}
	return s
}

func (r *Runner) set(ctx context.Context, jobID string, percent int, message string) {
	r.record(ctx, jobID, Progress{Percent: percent, Message: message})
}

func (r *Runner) fail(ctx context.Context, jobID string, err error) {
	msg := err.Error()
	r.logger.Error(ctx, "Job failed: %v", err)
	r.record(ctx, jobID, Progress{Percent: 100, Message: "Gagal: " + msg, Done: true, Error: &msg})
}

// record stores p even when the job context is already cancelled, so the
// final state is never lost.
func (r *Runner) record(ctx context.Context, jobID string, p Progress) {
	r.logger.Info(ctx, "%d%% %s", p.Percent, p.Message)
	if err := r.progress.Set(context.WithoutCancel(ctx), jobID, p); err != nil {
		r.logger.Warn(ctx, "Failed to record progress: %v", err)
	}
}

// Clean re-runs the text cleaner on a stored transcript and saves the result.
func (r *Runner) Clean(ctx context.Context, id uint) (string, error) {
	t, err := r.store.GetTranscript(ctx, id)
	if err != nil {
		return "", err
	}
	cleaned := textclean.Clean(t.Transcript, true)
	if err := r.store.UpdateCleaned(ctx, id, cleaned); err != nil {
		return "", fmt.Errorf("save cleaned transcript: %w", err)
	}
	return cleaned, nil
}

// Resummarize rebuilds and saves the summary of a stored transcript.
func (r *Runner) Resummarize(ctx context.Context, id uint) (string, error) {
	t, err := r.store.GetTranscript(ctx, id)
	if err != nil {
		return "", err
	}
	s := r.summarize(ctx, t.Transcript)
	if err := r.store.UpdateSummary(ctx, id, s); err != nil {
		return "", fmt.Errorf("save summary: %w", err)
	}
	return s, nil
}
