package summary

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"google.golang.org/genai"

	"github.com/sebayufm/notulen/internal/logger"
)

const summaryPrompt = `Anda adalah notulis radio Sebayu FM. Ringkas transkrip siaran atau rapat di bawah ini dalam BAHASA INDONESIA.

Ketentuan:
- Tulis setiap poin sebagai baris yang diawali "- "
- Utamakan keputusan, tindak lanjut, penanggung jawab, tenggat, dan angka anggaran
- Jangan menambah informasi yang tidak ada di transkrip
- Maksimal %d poin

Transkrip:
---
%s
---`

var errEmptyResponse = errors.New("empty response from Gemini")

type geminiSummarizer struct {
	mu         sync.Mutex
	apiKeys    []string
	currentKey int
	logger     logger.Logger
	model      string
	maxPoints  int
}

func (s *geminiSummarizer) Summarize(ctx context.Context, text string) (string, error) {
	if len(s.apiKeys) == 0 {
		return "", errors.New("no Gemini API keys configured")
	}
	if len(Sentences(text)) == 0 {
		return EmptyPlaceholder, nil
	}

	points := s.maxPoints
	if points <= 0 {
		points = 18
	}
	prompt := fmt.Sprintf(summaryPrompt, points, text)

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 2 * time.Second
	bo.MaxInterval = 10 * time.Second
	bo.MaxElapsedTime = 30 * time.Second

	var out string
	op := func() error {
		summary, err := s.callGemini(ctx, prompt)
		if err != nil {
			if isQuotaError(err) {
				return err
			}
			return backoff.Permanent(err)
		}
		out = summary
		return nil
	}
	if err := backoff.Retry(op, backoff.WithContext(bo, ctx)); err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// callGemini tries each API key once, rotating on 429 / quota errors.
func (s *geminiSummarizer) callGemini(ctx context.Context, prompt string) (string, error) {
	var lastErr error

	for range len(s.apiKeys) {
		idx, key := s.key()

		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  key,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			lastErr = fmt.Errorf("create client: %w", err)
			s.rotateKey()
			continue
		}

		result, err := client.Models.GenerateContent(ctx, s.model, genai.Text(prompt), nil)
		if err != nil {
			if isQuotaError(err) {
				s.logger.Warn(ctx, "Key %d rate limited, rotating...", idx+1)
				s.rotateKey()
				lastErr = err
				continue
			}
			return "", fmt.Errorf("generate content: %w", err)
		}

		if text := responseText(result); text != "" {
			return text, nil
		}
		return "", errEmptyResponse
	}

	return "", fmt.Errorf("all API keys exhausted: %w", lastErr)
}

func (s *geminiSummarizer) key() (int, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentKey, s.apiKeys[s.currentKey]
}

func (s *geminiSummarizer) rotateKey() {
	s.mu.Lock()
	s.currentKey = (s.currentKey + 1) % len(s.apiKeys)
	s.mu.Unlock()
}

func responseText(result *genai.GenerateContentResponse) string {
	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			b.WriteString(part.Text)
		}
	}
	return b.String()
}

func isQuotaError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "quota") || strings.Contains(msg, "RESOURCE_EXHAUSTED")
}
