package transcribe

import (
	"github.com/sebayufm/notulen/internal/config"
	"github.com/sebayufm/notulen/internal/logger"
	"github.com/sebayufm/notulen/pkg/executor"
)

type implOrchestrator struct {
	whisper  config.WhisperConfig
	ffmpeg   config.FFmpegConfig
	tempDir  string
	executor executor.Executor
	cache    *ModelCache
	logger   logger.Logger
}

// New creates an Orchestrator that shells out to ffmpeg through exec and
// recognizes speech with models loaded by engine.
func New(cfg *config.Config, exec executor.Executor, engine Engine, log logger.Logger) Orchestrator {
	return &implOrchestrator{
		whisper:  cfg.Whisper,
		ffmpeg:   cfg.FFmpeg,
		tempDir:  cfg.Paths.Temp,
		executor: exec,
		cache:    NewModelCache(engine),
		logger:   log,
	}
}

func (o *implOrchestrator) Close() error {
	return o.cache.Close()
}
