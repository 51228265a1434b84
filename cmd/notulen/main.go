package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sebayufm/notulen/internal/chatbot"
	"github.com/sebayufm/notulen/internal/config"
	"github.com/sebayufm/notulen/internal/httpapi"
	"github.com/sebayufm/notulen/internal/jobs"
	"github.com/sebayufm/notulen/internal/logger"
	"github.com/sebayufm/notulen/internal/minutes"
	"github.com/sebayufm/notulen/internal/store"
	"github.com/sebayufm/notulen/internal/summary"
	"github.com/sebayufm/notulen/internal/transcribe"
	"github.com/sebayufm/notulen/internal/watcher"
	"github.com/sebayufm/notulen/pkg/executor"
)

const shutdownTimeout = 30 * time.Second

func main() {
	ctx := context.Background()

	configPath := "config.yaml"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer log.Sync()

	log.Info(ctx, "========================================")
	log.Info(ctx, "Notulen transcription service")
	log.Info(ctx, "========================================")
	log.Info(ctx, "System: %s/%s, CPU cores: %d", runtime.GOOS, runtime.GOARCH, runtime.NumCPU())
	log.Info(ctx, "Whisper: device=%s compute=%s", cfg.Whisper.Device, cfg.Whisper.Compute)
	log.Info(ctx, "Max concurrent jobs: %d", cfg.Performance.MaxConcurrent)

	if err := run(ctx, cfg, log); err != nil {
		log.Error(ctx, "%v", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	if err := ensureDirectories(cfg); err != nil {
		return fmt.Errorf("create directories: %w", err)
	}

	db, err := store.NewPostgresDB(cfg.Database, cfg.Logging.Level)
	if err != nil {
		return err
	}
	if cfg.Database.AutoMigrate {
		n, err := store.Migrate(db)
		if err != nil {
			return err
		}
		log.Info(ctx, "Applied %d migrations", n)
	}
	st := store.New(db)
	defer st.Close()

	if err := st.SeedSchedule(ctx, scheduleSlots(cfg.Schedule)); err != nil {
		log.Warn(ctx, "Failed to seed schedule: %v", err)
	}

	progress, closeProgress, err := newProgressStore(ctx, cfg.Redis, log)
	if err != nil {
		return err
	}
	defer closeProgress()

	engine := transcribe.NewWhisperEngine(cfg.Whisper.Python, cfg.Paths.Temp, log)
	orch := transcribe.New(cfg, executor.New(), engine, log)
	defer orch.Close()

	runner := jobs.NewRunner(orch, newSummarizer(ctx, cfg, log), st, progress, cfg.Performance.MaxConcurrent, log)

	var nowPlaying chatbot.NowPlaying
	if cfg.Station.NowPlayingURL != "" {
		nowPlaying = chatbot.NewNowPlaying(cfg.Station.NowPlayingURL)
	}
	bot := chatbot.New(st, nowPlaying, log)

	docs := minutes.NewDocxWriter(cfg.Paths.Uploads, log)
	handler := httpapi.NewHandler(cfg, runner, st, bot, docs, log)
	server := httpapi.NewServer(cfg.Server, handler)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	w, err := watcher.New(cfg.Paths.Inbox, watcher.SubmitHandler(runner, cfg.Paths.Uploads, true, log), log, 0)
	if err != nil {
		return err
	}
	defer w.Stop()

	errChan := make(chan error, 2)
	go func() {
		if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errChan <- fmt.Errorf("watcher: %w", err)
		}
	}()
	go func() {
		if err := server.Start(cfg.Server.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("http server: %w", err)
		}
	}()

	log.Info(ctx, "Listening on %s, inbox %s", cfg.Server.Addr, cfg.Paths.Inbox)
	log.Info(ctx, "Press Ctrl+C to stop")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case <-sigChan:
		log.Info(ctx, "Shutdown signal received")
	case runErr = <-errChan:
	}

	log.Info(ctx, "Shutting down gracefully...")
	shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn(ctx, "HTTP shutdown: %v", err)
	}
	cancel()
	runner.Shutdown()

	log.Info(ctx, "Notulen stopped")
	return runErr
}

func newProgressStore(ctx context.Context, cfg config.RedisConfig, log logger.Logger) (jobs.ProgressStore, func(), error) {
	if cfg.Addr == "" {
		log.Info(ctx, "Progress kept in memory")
		return jobs.NewMemoryProgress(), func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("connect to redis: %w", err)
	}
	log.Info(ctx, "Progress kept in Redis at %s", cfg.Addr)
	return jobs.NewRedisProgress(client, cfg.TTL), func() { client.Close() }, nil
}

func newSummarizer(ctx context.Context, cfg *config.Config, log logger.Logger) summary.Summarizer {
	if len(cfg.Gemini.APIKeys) > 0 {
		log.Info(ctx, "Summaries by Gemini (%s, %d keys)", cfg.Gemini.Model, len(cfg.Gemini.APIKeys))
		return summary.NewGemini(cfg.Gemini.APIKeys, cfg.Gemini.Model, cfg.Minutes.SummarySentences, log)
	}
	log.Info(ctx, "Summaries by local sentence scorer")
	return summary.NewLocal(cfg.Minutes.SummarySentences)
}

func scheduleSlots(in []config.ScheduleSlot) []store.ScheduleSlot {
	out := make([]store.ScheduleSlot, 0, len(in))
	for _, s := range in {
		out = append(out, store.ScheduleSlot{
			DayOfWeek: s.DayOfWeek,
			StartTime: s.Start,
			EndTime:   s.End,
			Program:   s.Program,
			Host:      s.Host,
		})
	}
	return out
}

// ensureDirectories creates required directories if they don't exist
func ensureDirectories(cfg *config.Config) error {
	dirs := []string{
		cfg.Paths.Uploads,
		cfg.Paths.Inbox,
		cfg.Paths.Temp,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}
