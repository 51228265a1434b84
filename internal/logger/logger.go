package logger

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ctxKey string

const jobKey ctxKey = "job_id"

type implLogger struct {
	sugar *zap.SugaredLogger
}

// New creates a new Logger instance. format is "console" or "json".
func New(level, format string) Logger {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	if strings.ToLower(format) == "json" {
		cfg.Encoding = "json"
	}
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(level))
	cfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("2006/01/02 15:04:05")
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.DisableStacktrace = true
	cfg.DisableCaller = true

	z, err := cfg.Build()
	if err != nil {
		z = zap.NewExample()
	}
	return &implLogger{sugar: z.Sugar()}
}

// NewNop returns a Logger that discards everything.
func NewNop() Logger {
	return &implLogger{sugar: zap.NewNop().Sugar()}
}

// WithJob attaches a job id to ctx; log lines written with that ctx carry it.
func WithJob(ctx context.Context, jobID string) context.Context {
	return context.WithValue(ctx, jobKey, jobID)
}

// JobFromContext returns the job id attached by WithJob, if any.
func JobFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(jobKey).(string)
	return id, ok && id != ""
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func (l *implLogger) with(ctx context.Context) *zap.SugaredLogger {
	if id, ok := JobFromContext(ctx); ok {
		return l.sugar.With("job", id)
	}
	return l.sugar
}

func (l *implLogger) Debug(ctx context.Context, msg string, args ...interface{}) {
	l.with(ctx).Debugf(msg, args...)
}

func (l *implLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	l.with(ctx).Infof(msg, args...)
}

func (l *implLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	l.with(ctx).Warnf(msg, args...)
}

func (l *implLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	l.with(ctx).Errorf(msg, args...)
}

func (l *implLogger) Sync() error {
	return l.sugar.Sync()
}
