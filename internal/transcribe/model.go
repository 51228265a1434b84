package transcribe

import (
	"context"
	"strings"
)

const (
	defaultModel = "small"
	largeModel   = "medium"

	// largeModelAfter is the duration in seconds above which the larger model is used.
	largeModelAfter = 1800

	cpuCompute = "int8"
)

var manualModels = map[string]bool{
	"tiny":   true,
	"base":   true,
	"small":  true,
	"medium": true,
}

// ChooseModel picks the model size: the manual choice when allowed,
// otherwise the larger model for audio longer than 30 minutes.
func ChooseModel(durationSec float64, mode Mode, manualChoice string) string {
	if mode == ModeManual && manualModels[manualChoice] {
		return manualChoice
	}
	if durationSec > largeModelAfter {
		return largeModel
	}
	return defaultModel
}

// loadModel tries CUDA with the configured precision and falls back to
// CPU int8 on any failure.
func (o *implOrchestrator) loadModel(ctx context.Context, size string) (Model, error) {
	if strings.ToLower(o.whisper.Device) == "cpu" {
		m, err := o.cache.Get(ctx, size, "cpu", cpuCompute)
		if err == nil {
			o.logger.Info(ctx, "Whisper model %s loaded on CPU (%s)", size, cpuCompute)
		}
		return m, err
	}

	compute := strings.ToLower(o.whisper.Compute)
	switch compute {
	case "float16", "int8_float16", "int8":
	default:
		compute = "float16"
	}

	m, err := o.cache.Get(ctx, size, "cuda", compute)
	if err == nil {
		o.logger.Info(ctx, "Whisper model %s loaded on CUDA (%s)", size, compute)
		return m, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	o.logger.Warn(ctx, "GPU unavailable (%v); falling back to CPU %s", err, cpuCompute)
	return o.cache.Get(ctx, size, "cpu", cpuCompute)
}
