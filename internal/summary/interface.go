package summary

import "context"

// Summarizer turns a transcript into a bullet summary.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}
