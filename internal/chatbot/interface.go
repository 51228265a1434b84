// Package chatbot answers listener messages about the broadcast schedule,
// the song on air and song requests.
package chatbot

import "context"

// Bot replies to chat messages.
type Bot interface {
	// Reply returns the answer to text without side effects.
	Reply(ctx context.Context, text string) string
	// Handle replies to text and stores it when it is a song request.
	Handle(ctx context.Context, username, platform, text string) (string, error)
}

// NowPlaying reports what the station is airing.
type NowPlaying interface {
	Status(ctx context.Context) (string, error)
}
