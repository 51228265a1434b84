package summary

import (
	"context"

	"github.com/sebayufm/notulen/internal/logger"
)

type localSummarizer struct {
	maxSentences int
}

// NewLocal creates a Summarizer that runs the sentence scorer in process.
func NewLocal(maxSentences int) Summarizer {
	return &localSummarizer{maxSentences: maxSentences}
}

func (s *localSummarizer) Summarize(ctx context.Context, text string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return Summarize(text, s.maxSentences), nil
}

// NewGemini creates a Summarizer that rotates through the supplied Gemini API keys.
func NewGemini(apiKeys []string, model string, maxPoints int, log logger.Logger) Summarizer {
	if model == "" {
		model = "gemini-2.5-flash"
	}
	return &geminiSummarizer{
		apiKeys:   apiKeys,
		logger:    log,
		model:     model,
		maxPoints: maxPoints,
	}
}
