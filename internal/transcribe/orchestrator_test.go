package transcribe

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sebayufm/notulen/internal/config"
	"github.com/sebayufm/notulen/internal/logger"
)

type fakeExecutor struct {
	duration   string
	probeErr   error
	segmentErr error
	segmentDur int

	mu    sync.Mutex
	calls []string
}

func (f *fakeExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	return f.ExecuteInDir(ctx, "", name, args...)
}

// ExecuteInDir fakes ffprobe and ffmpeg: it prints the configured duration
// or creates the output files the real command would write.
func (f *fakeExecutor) ExecuteInDir(_ context.Context, dir, name string, args ...string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, name+" "+strings.Join(args, " "))
	f.mu.Unlock()

	if name == "ffprobe" {
		if f.probeErr != nil {
			return "", f.probeErr
		}
		return f.duration + "\n", nil
	}

	out := filepath.Join(dir, args[len(args)-1])
	if !strings.Contains(out, "%03d") {
		return "", os.WriteFile(out, []byte("wav"), 0o644)
	}

	if f.segmentErr != nil {
		return "", f.segmentErr
	}
	var d float64
	fmt.Sscanf(f.duration, "%g", &d)
	n := int(math.Ceil(d / float64(f.segmentDur)))
	for i := range n {
		if err := os.WriteFile(fmt.Sprintf(out, i), []byte("wav"), 0o644); err != nil {
			return "", err
		}
	}
	return "", nil
}

type fakeModel struct {
	mu       sync.Mutex
	requests []Request
	dead     bool
	err      error
}

func (m *fakeModel) Transcribe(ctx context.Context, req Request) ([]Segment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)
	if m.err != nil {
		return nil, m.err
	}
	return []Segment{
		{Start: 0, End: 1, Text: "  halo "},
		{Start: 1, End: 2, Text: filepath.Base(req.AudioPath)},
	}, nil
}

func (m *fakeModel) Alive() bool  { return !m.dead }
func (m *fakeModel) Close() error { return nil }

type fakeEngine struct {
	failCUDA bool
	model    *fakeModel

	mu    sync.Mutex
	loads []string
}

func (e *fakeEngine) Load(ctx context.Context, size, device, compute string) (Model, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.loads = append(e.loads, size+"/"+device+"/"+compute)
	if device == "cuda" && e.failCUDA {
		return nil, errors.New("no CUDA device")
	}
	if e.model == nil {
		e.model = &fakeModel{}
	}
	return e.model, nil
}

type recorder struct {
	percents []int
	messages []string
}

func (r *recorder) Report(percent int, message string) {
	r.percents = append(r.percents, percent)
	r.messages = append(r.messages, message)
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.Database.DSN = "postgres://localhost/test"
	cfg.Paths.Uploads = t.TempDir()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	cfg.Paths.Temp = t.TempDir()
	return cfg
}

func TestChooseModel(t *testing.T) {
	tests := []struct {
		name     string
		duration float64
		mode     Mode
		manual   string
		want     string
	}{
		{name: "short auto", duration: 600, mode: ModeAuto, want: "small"},
		{name: "exactly threshold", duration: 1800, mode: ModeAuto, want: "small"},
		{name: "long auto", duration: 3600, mode: ModeAuto, want: "medium"},
		{name: "probe failed", duration: 0, mode: ModeAuto, want: "small"},
		{name: "manual allowed", duration: 3600, mode: ModeManual, manual: "tiny", want: "tiny"},
		{name: "manual not allowed", duration: 100, mode: ModeManual, manual: "large-v3", want: "small"},
		{name: "auto ignores manual choice", duration: 100, mode: ModeAuto, manual: "base", want: "small"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ChooseModel(tt.duration, tt.mode, tt.manual); got != tt.want {
				t.Errorf("ChooseModel() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRunChunked(t *testing.T) {
	cfg := testConfig(t)
	exec := &fakeExecutor{duration: "3600.0", segmentDur: cfg.FFmpeg.SegmentSeconds}
	engine := &fakeEngine{}
	o := New(cfg, exec, engine, logger.NewNop())

	rec := &recorder{}
	text, err := o.Run(context.Background(), filepath.Join(t.TempDir(), "rapat.mp3"), Options{Mode: ModeAuto, Chunk: true}, rec)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	blocks := strings.Split(text, "\n")
	if len(blocks) != 6 {
		t.Fatalf("Run() produced %d blocks, want 6:\n%s", len(blocks), text)
	}
	for i, b := range blocks {
		want := fmt.Sprintf("[Bagian %d] halo part_%03d.wav", i+1, i)
		if b != want {
			t.Errorf("block %d = %q, want %q", i, b, want)
		}
	}

	if len(engine.loads) != 1 || engine.loads[0] != "medium/cuda/float16" {
		t.Errorf("loads = %v, want [medium/cuda/float16]", engine.loads)
	}

	if rec.percents[0] != 20 || rec.percents[1] != 25 || rec.percents[2] != 28 {
		t.Errorf("first percents = %v", rec.percents[:3])
	}
	if last := rec.percents[len(rec.percents)-1]; last != 88 {
		t.Errorf("last percent = %d, want 88", last)
	}
	for i := 3; i < len(rec.percents)-1; i++ {
		if p := rec.percents[i]; p < 30 || p > 85 {
			t.Errorf("chunk percent %d out of 30..85", p)
		}
	}
	if rec.percents[len(rec.percents)-2] != 85 {
		t.Errorf("last chunk percent = %d, want 85", rec.percents[len(rec.percents)-2])
	}

	entries, err := os.ReadDir(cfg.Paths.Temp)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("temp dir not cleaned: %v", entries)
	}

	req := engine.model.requests[0]
	if !req.VADFilter || req.ConditionOnPrevious || req.Prompt == "" || req.Language != "id" {
		t.Errorf("request = %+v", req)
	}
}

func TestRunWhole(t *testing.T) {
	cfg := testConfig(t)
	exec := &fakeExecutor{duration: "120"}
	engine := &fakeEngine{}
	o := New(cfg, exec, engine, logger.NewNop())

	rec := &recorder{}
	text, err := o.Run(context.Background(), filepath.Join(t.TempDir(), "siaran.wav"), Options{Mode: ModeAuto}, rec)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.HasPrefix(text, "halo siaran_") || !strings.HasSuffix(text, "__16k.wav") {
		t.Errorf("Run() = %q", text)
	}

	want := []int{20, 25, 28, 35, 88}
	if fmt.Sprint(rec.percents) != fmt.Sprint(want) {
		t.Errorf("percents = %v, want %v", rec.percents, want)
	}
	if !strings.HasPrefix(rec.messages[0], "Durasi terdeteksi ~2.0 menit") {
		t.Errorf("message = %q", rec.messages[0])
	}
	if rec.messages[1] != "Pilih model: small" {
		t.Errorf("message = %q", rec.messages[1])
	}
}

func TestPreprocessSameBaseNameGetsDistinctOutputs(t *testing.T) {
	cfg := testConfig(t)
	o := New(cfg, &fakeExecutor{}, &fakeEngine{}, logger.NewNop()).(*implOrchestrator)
	ctx := context.Background()

	first, err := o.preprocess(ctx, filepath.Join(t.TempDir(), "a", "rapat.mp3"))
	if err != nil {
		t.Fatalf("preprocess() error = %v", err)
	}
	second, err := o.preprocess(ctx, filepath.Join(t.TempDir(), "b", "rapat.wav"))
	if err != nil {
		t.Fatalf("preprocess() error = %v", err)
	}

	if first == second {
		t.Fatalf("preprocess() returned %q twice", first)
	}
	for _, p := range []string{first, second} {
		if filepath.Dir(p) != cfg.Paths.Temp || !strings.HasPrefix(filepath.Base(p), "rapat_") {
			t.Errorf("preprocess() = %q, want rapat_* inside %q", p, cfg.Paths.Temp)
		}
	}

	o.cleanupTempFile(ctx, first)
	if _, err := os.Stat(second); err != nil {
		t.Errorf("removing one output affected the other: %v", err)
	}
}

func TestRunProbeFailure(t *testing.T) {
	cfg := testConfig(t)
	exec := &fakeExecutor{probeErr: errors.New("ffprobe missing")}
	engine := &fakeEngine{}
	o := New(cfg, exec, engine, logger.NewNop())

	rec := &recorder{}
	if _, err := o.Run(context.Background(), "x.wav", Options{Mode: ModeAuto}, rec); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if rec.messages[1] != "Pilih model: small" {
		t.Errorf("message = %q, want small model", rec.messages[1])
	}
}

func TestRunFallsBackToCPU(t *testing.T) {
	cfg := testConfig(t)
	engine := &fakeEngine{failCUDA: true}
	o := New(cfg, &fakeExecutor{duration: "10"}, engine, logger.NewNop())

	if _, err := o.Run(context.Background(), "x.wav", Options{}, nil); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	want := []string{"small/cuda/float16", "small/cpu/int8"}
	if fmt.Sprint(engine.loads) != fmt.Sprint(want) {
		t.Errorf("loads = %v, want %v", engine.loads, want)
	}
}

func TestRunCPUDevice(t *testing.T) {
	cfg := testConfig(t)
	cfg.Whisper.Device = "cpu"
	engine := &fakeEngine{}
	o := New(cfg, &fakeExecutor{duration: "10"}, engine, logger.NewNop())

	if _, err := o.Run(context.Background(), "x.wav", Options{}, nil); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if fmt.Sprint(engine.loads) != "[small/cpu/int8]" {
		t.Errorf("loads = %v", engine.loads)
	}
}

func TestRunSegmentFailureCleansUp(t *testing.T) {
	cfg := testConfig(t)
	exec := &fakeExecutor{duration: "1200", segmentErr: errors.New("segment failed")}
	o := New(cfg, exec, &fakeEngine{}, logger.NewNop())

	_, err := o.Run(context.Background(), "x.wav", Options{Chunk: true}, nil)
	if err == nil {
		t.Fatal("Run() error = nil, want segment error")
	}

	entries, _ := os.ReadDir(cfg.Paths.Temp)
	if len(entries) != 0 {
		t.Errorf("temp dir not cleaned: %v", entries)
	}
}

func TestRunTranscribeError(t *testing.T) {
	cfg := testConfig(t)
	engine := &fakeEngine{model: &fakeModel{err: errors.New("decoder crashed")}}
	o := New(cfg, &fakeExecutor{duration: "10"}, engine, logger.NewNop())

	_, err := o.Run(context.Background(), "x.wav", Options{}, nil)
	if err == nil || !strings.Contains(err.Error(), "decoder crashed") {
		t.Errorf("Run() error = %v", err)
	}
}

func TestRunCancelled(t *testing.T) {
	cfg := testConfig(t)
	o := New(cfg, &fakeExecutor{duration: "10"}, &fakeEngine{}, logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	rec := ReporterFunc(func(percent int, _ string) {
		if percent == 25 {
			cancel()
		}
	})
	_, err := o.Run(ctx, "x.wav", Options{}, rec)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}

func TestModelCache(t *testing.T) {
	engine := &fakeEngine{}
	c := NewModelCache(engine)
	ctx := context.Background()

	m1, err := c.Get(ctx, "small", "cpu", "int8")
	if err != nil {
		t.Fatal(err)
	}
	m2, _ := c.Get(ctx, "small", "cpu", "int8")
	if m1 != m2 || len(engine.loads) != 1 {
		t.Errorf("cache miss on repeated key, loads = %v", engine.loads)
	}

	if _, err := c.Get(ctx, "medium", "cpu", "int8"); err != nil {
		t.Fatal(err)
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}

	engine.model.dead = true
	if _, err := c.Get(ctx, "small", "cpu", "int8"); err != nil {
		t.Fatal(err)
	}
	if len(engine.loads) != 3 {
		t.Errorf("dead model not reloaded, loads = %v", engine.loads)
	}

	if err := c.Close(); err != nil {
		t.Fatal(err)
	}
	if c.Len() != 0 {
		t.Errorf("Len() after Close = %d", c.Len())
	}
}

// gatedEngine blocks loads of one size until release is closed.
type gatedEngine struct {
	gated   string
	started chan struct{}
	release chan struct{}

	mu    sync.Mutex
	loads map[string]int
}

func (e *gatedEngine) Load(ctx context.Context, size, device, compute string) (Model, error) {
	e.mu.Lock()
	e.loads[size]++
	e.mu.Unlock()

	if size == e.gated {
		close(e.started)
		<-e.release
	}
	return &fakeModel{}, nil
}

func TestModelCacheSlowLoadDoesNotBlockOtherKeys(t *testing.T) {
	engine := &gatedEngine{
		gated:   "medium",
		started: make(chan struct{}),
		release: make(chan struct{}),
		loads:   make(map[string]int),
	}
	c := NewModelCache(engine)
	ctx := context.Background()

	results := make(chan Model, 2)
	for range 2 {
		go func() {
			m, err := c.Get(ctx, "medium", "cpu", "int8")
			if err != nil {
				t.Errorf("Get(medium) error = %v", err)
			}
			results <- m
		}()
	}
	<-engine.started

	small := make(chan error, 1)
	go func() {
		_, err := c.Get(ctx, "small", "cpu", "int8")
		small <- err
	}()
	select {
	case err := <-small:
		if err != nil {
			t.Fatalf("Get(small) error = %v", err)
		}
	case <-time.After(2 * time.Second):
		close(engine.release)
		t.Fatal("Get(small) blocked behind the medium load")
	}

	waitCtx, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
	defer cancel()
	if _, err := c.Get(waitCtx, "medium", "cpu", "int8"); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Get(medium) while loading error = %v, want deadline exceeded", err)
	}

	close(engine.release)
	first, second := <-results, <-results
	if first == nil || first != second {
		t.Errorf("concurrent Get(medium) returned %v and %v, want the same model", first, second)
	}

	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.loads["medium"] != 1 {
		t.Errorf("medium loaded %d times, want 1", engine.loads["medium"])
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
}

func TestJoinSegments(t *testing.T) {
	got := JoinSegments([]Segment{{Text: " satu "}, {Text: "   "}, {Text: "dua"}})
	if got != "satu dua" {
		t.Errorf("JoinSegments() = %q", got)
	}
}

func TestIsAudioFile(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"rapat.WAV", true},
		{"siaran.mp3", true},
		{"a.m4a", true},
		{"a.flac", true},
		{"a.ogg", true},
		{"a.aac", true},
		{"video.mp4", false},
		{"notes.txt", false},
		{"noext", false},
	}
	for _, tt := range tests {
		if got := IsAudioFile(tt.name); got != tt.want {
			t.Errorf("IsAudioFile(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
