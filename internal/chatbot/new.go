package chatbot

import (
	"net/http"
	"time"

	"github.com/sebayufm/notulen/internal/logger"
	"github.com/sebayufm/notulen/internal/store"
)

const nowPlayingTimeout = 6 * time.Second

type implBot struct {
	store      store.Store
	nowPlaying NowPlaying
	now        func() time.Time
	logger     logger.Logger
}

// New creates a Bot. nowPlaying may be nil when the station has no status API.
func New(st store.Store, nowPlaying NowPlaying, log logger.Logger) Bot {
	return &implBot{
		store:      st,
		nowPlaying: nowPlaying,
		now:        time.Now,
		logger:     log,
	}
}

// NewNowPlaying creates a client for an AzuraCast style now-playing endpoint.
func NewNowPlaying(url string) NowPlaying {
	return &azuraClient{
		url:    url,
		client: &http.Client{Timeout: nowPlayingTimeout},
	}
}
