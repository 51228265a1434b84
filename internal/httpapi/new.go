package httpapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/sebayufm/notulen/internal/chatbot"
	"github.com/sebayufm/notulen/internal/config"
	"github.com/sebayufm/notulen/internal/logger"
	"github.com/sebayufm/notulen/internal/minutes"
	"github.com/sebayufm/notulen/internal/store"
)

const (
	defaultEventInterval = time.Second
)

// Handler serves the API routes.
type Handler struct {
	jobs       Jobs
	store      store.Store
	bot        chatbot.Bot
	docs       DocumentWriter
	defaults   minutes.Meta
	uploadsDir string
	tempDir    string
	logger     logger.Logger

	eventInterval time.Duration
}

// NewHandler creates a Handler. defaults fills empty letterhead and signature
// fields of every minutes document.
func NewHandler(cfg *config.Config, j Jobs, st store.Store, bot chatbot.Bot, docs DocumentWriter, log logger.Logger) *Handler {
	return &Handler{
		jobs:  j,
		store: st,
		bot:   bot,
		docs:  docs,
		defaults: minutes.Meta{
			Instansi:   cfg.Station.Instansi,
			Alamat:     cfg.Station.Alamat,
			TTDJabatan: cfg.Station.TTDJabatan,
		},
		uploadsDir:    cfg.Paths.Uploads,
		tempDir:       cfg.Paths.Temp,
		logger:        log,
		eventInterval: defaultEventInterval,
	}
}

// NewServer builds the echo instance with middleware and every route.
func NewServer(cfg config.ServerConfig, h *Handler) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = newValidator()

	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit("1G"))
	if len(cfg.AllowedOrigins) > 0 {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: cfg.AllowedOrigins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
			AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		}))
	}

	h.Register(e)
	return e
}

// Register mounts the routes on e.
func (h *Handler) Register(e *echo.Echo) {
	e.POST("/transcribe", h.Transcribe)
	e.GET("/progress/:job", h.Progress)
	e.GET("/events/:job", h.Events)

	e.GET("/transcripts", h.ListTranscripts)
	e.GET("/transcripts/:id", h.GetTranscript)
	e.POST("/transcripts/:id/clean", h.CleanTranscript)
	e.POST("/transcripts/:id/summarize", h.SummarizeTranscript)
	e.POST("/transcripts/:id/delete", h.DeleteTranscript)
	e.DELETE("/transcripts/:id", h.DeleteTranscript)

	e.GET("/transcripts/:id/minutes", h.Minutes)
	e.PUT("/transcripts/:id/minutes/meta", h.UpdateMinutesMeta)
	e.GET("/transcripts/:id/minutes.docx", h.MinutesDocx)

	e.POST("/api/chat", h.Chat)
	e.GET("/requests", h.ListRequests)
}
