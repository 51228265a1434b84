package transcribe

import (
	"bufio"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sync"

	"github.com/sebayufm/notulen/internal/logger"
)

//go:embed assets/faster_whisper_worker.py
var workerScript []byte

// ErrWorkerExited is returned when a model worker process is gone.
var ErrWorkerExited = errors.New("whisper worker exited")

type workerReply struct {
	Ready    *bool     `json:"ready,omitempty"`
	Error    string    `json:"error,omitempty"`
	Segments []Segment `json:"segments,omitempty"`
}

type whisperEngine struct {
	python  string
	tempDir string
	logger  logger.Logger

	once       sync.Once
	scriptPath string
	scriptErr  error
}

// NewWhisperEngine creates an Engine backed by faster-whisper. Each loaded
// model lives in its own python worker process for the lifetime of the Model.
func NewWhisperEngine(python, tempDir string, log logger.Logger) Engine {
	if python == "" {
		python = "python3"
	}
	return &whisperEngine{python: python, tempDir: tempDir, logger: log}
}

func (e *whisperEngine) script() (string, error) {
	e.once.Do(func() {
		dir := e.tempDir
		if dir == "" {
			dir = os.TempDir()
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			e.scriptErr = fmt.Errorf("create temp dir: %w", err)
			return
		}
		e.scriptPath = filepath.Join(dir, "faster_whisper_worker.py")
		if err := os.WriteFile(e.scriptPath, workerScript, 0o755); err != nil {
			e.scriptErr = fmt.Errorf("write helper script: %w", err)
		}
	})
	return e.scriptPath, e.scriptErr
}

func (e *whisperEngine) Load(ctx context.Context, size, device, compute string) (Model, error) {
	script, err := e.script()
	if err != nil {
		return nil, err
	}

	// Not bound to ctx: the worker outlives the request that loaded it.
	cmd := exec.Command(e.python, script, "--model", size, "--device", device, "--compute", compute)
	cmd.Env = os.Environ()
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("stdin pipe: %w", err)
	}
	// A plain os.Pipe keeps stdout readable until EOF even after Wait returns.
	stdout, pw, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}
	cmd.Stdout = pw
	if err := cmd.Start(); err != nil {
		pw.Close()
		stdout.Close()
		return nil, fmt.Errorf("start worker: %w", err)
	}
	pw.Close()

	m := &workerModel{
		name:   fmt.Sprintf("%s/%s/%s", size, device, compute),
		cmd:    cmd,
		stdin:  stdin,
		stdout: stdout,
		out:    bufio.NewReader(stdout),
		done:   make(chan struct{}),
		logger: e.logger,
	}
	go func() {
		_ = cmd.Wait()
		close(m.done)
	}()

	reply, err := m.readReply(ctx)
	if err != nil {
		_ = m.Close()
		return nil, fmt.Errorf("load %s: %w", m.name, err)
	}
	if reply.Ready == nil || !*reply.Ready {
		_ = m.Close()
		return nil, fmt.Errorf("load %s: %s", m.name, reply.Error)
	}

	e.logger.Debug(ctx, "Whisper worker ready: %s (pid %d)", m.name, cmd.Process.Pid)
	return m, nil
}

type workerModel struct {
	mu     sync.Mutex
	name   string
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *os.File
	out    *bufio.Reader
	done   chan struct{}
	logger logger.Logger
}

func (m *workerModel) Transcribe(ctx context.Context, req Request) ([]Segment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.Alive() {
		return nil, ErrWorkerExited
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	if _, err := m.stdin.Write(append(payload, '\n')); err != nil {
		return nil, fmt.Errorf("write request: %w", err)
	}

	reply, err := m.readReply(ctx)
	if err != nil {
		return nil, err
	}
	if reply.Error != "" {
		return nil, errors.New(reply.Error)
	}
	return reply.Segments, nil
}

// readReply waits for one JSON line. A cancelled ctx kills the worker,
// since the in-flight request cannot be aborted otherwise.
func (m *workerModel) readReply(ctx context.Context) (workerReply, error) {
	type result struct {
		reply workerReply
		err   error
	}
	ch := make(chan result, 1)

	go func() {
		line, err := m.out.ReadBytes('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				err = ErrWorkerExited
			}
			ch <- result{err: err}
			return
		}
		var r workerReply
		if err := json.Unmarshal(line, &r); err != nil {
			ch <- result{err: fmt.Errorf("parse worker output: %w", err)}
			return
		}
		ch <- result{reply: r}
	}()

	select {
	case <-ctx.Done():
		m.logger.Warn(ctx, "Stopping whisper worker %s: %v", m.name, ctx.Err())
		m.kill()
		<-ch
		return workerReply{}, ctx.Err()
	case r := <-ch:
		return r.reply, r.err
	}
}

func (m *workerModel) Alive() bool {
	select {
	case <-m.done:
		return false
	default:
		return true
	}
}

func (m *workerModel) Close() error {
	_ = m.stdin.Close()
	m.kill()
	return m.stdout.Close()
}

func (m *workerModel) kill() {
	if m.cmd.Process != nil {
		_ = m.cmd.Process.Kill()
	}
	<-m.done
}
