package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sebayufm/notulen/internal/jobs"
	"github.com/sebayufm/notulen/internal/transcribe"
)

// Transcribe stores the uploaded audio and queues a job for it.
func (h *Handler) Transcribe(c echo.Context) error {
	var form transcribeForm
	if err := c.Bind(&form); err != nil {
		return h.handleError(c, errBadRequest("invalid form", err))
	}
	if err := c.Validate(&form); err != nil {
		return h.handleError(c, err)
	}

	file, err := c.FormFile("audio")
	if err != nil {
		return h.handleError(c, errBadRequest("Pilih file audio terlebih dahulu.", err))
	}
	if file.Filename == "" {
		return h.handleError(c, errBadRequest("Nama file kosong.", nil))
	}
	if !transcribe.IsAudioFile(file.Filename) {
		return h.handleError(c, errBadRequest("Format file tidak didukung.", nil))
	}

	dest := jobs.UploadPath(h.uploadsDir, file.Filename)
	if err := saveUpload(file, dest); err != nil {
		return h.handleError(c, errInternal(fmt.Errorf("save upload: %w", err)))
	}

	jobID, err := h.jobs.Submit(c.Request().Context(), jobs.Request{
		AudioPath: dest,
		Filename:  filepath.Base(dest),
		Program:   form.program(),
		Options:   form.options(),
		Summarize: checked(form.Summary),
	})
	if err != nil {
		os.Remove(dest)
		return h.handleError(c, err)
	}
	return c.JSON(http.StatusAccepted, jobResponse{JobID: jobID})
}

func saveUpload(file *multipart.FileHeader, dest string) error {
	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		os.Remove(dest)
		return err
	}
	return out.Close()
}

// Progress returns the current state of a job.
func (h *Handler) Progress(c echo.Context) error {
	p, err := h.jobs.Progress(c.Request().Context(), c.Param("job"))
	if err != nil {
		return h.handleError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// waitingState is streamed for a job that has no recorded progress yet.
var waitingState = jobs.Progress{Message: "Menunggu…"}

// Events streams the job state as server sent events until the job is done
// or the client goes away.
func (h *Handler) Events(c echo.Context) error {
	ctx := c.Request().Context()
	jobID := c.Param("job")

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set("Cache-Control", "no-cache")
	res.Header().Set("Connection", "keep-alive")
	res.WriteHeader(http.StatusOK)

	tick := time.NewTicker(h.eventInterval)
	defer tick.Stop()

	for {
		p, err := h.jobs.Progress(ctx, jobID)
		if err != nil {
			if !errors.Is(err, jobs.ErrUnknownJob) {
				h.logger.Warn(ctx, "Progress lookup for %s failed: %v", jobID, err)
			}
			p = waitingState
		}

		data, err := json.Marshal(p)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(res, "data: %s\n\n", data); err != nil {
			return nil
		}
		res.Flush()

		if p.Done {
			return nil
		}
		select {
		case <-ctx.Done():
			return nil
		case <-tick.C:
		}
	}
}

// ListTranscripts returns the most recent transcripts.
func (h *Handler) ListTranscripts(c echo.Context) error {
	var q listQuery
	if err := c.Bind(&q); err != nil {
		return h.handleError(c, errBadRequest("invalid query", err))
	}
	if err := c.Validate(&q); err != nil {
		return h.handleError(c, err)
	}

	list, err := h.store.ListTranscripts(c.Request().Context(), q.Limit)
	if err != nil {
		return h.handleError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *Handler) GetTranscript(c echo.Context) error {
	id, err := transcriptID(c)
	if err != nil {
		return h.handleError(c, err)
	}
	t, err := h.store.GetTranscript(c.Request().Context(), id)
	if err != nil {
		return h.handleError(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

// CleanTranscript re-runs the text cleaner on a transcript.
func (h *Handler) CleanTranscript(c echo.Context) error {
	id, err := transcriptID(c)
	if err != nil {
		return h.handleError(c, err)
	}
	text, err := h.jobs.Clean(c.Request().Context(), id)
	if err != nil {
		return h.handleError(c, err)
	}
	return c.JSON(http.StatusOK, textResponse{ID: id, Text: text})
}

// SummarizeTranscript rebuilds the summary of a transcript.
func (h *Handler) SummarizeTranscript(c echo.Context) error {
	id, err := transcriptID(c)
	if err != nil {
		return h.handleError(c, err)
	}
	text, err := h.jobs.Resummarize(c.Request().Context(), id)
	if err != nil {
		return h.handleError(c, err)
	}
	return c.JSON(http.StatusOK, textResponse{ID: id, Text: text})
}

// DeleteTranscript removes the row and its uploaded audio file.
func (h *Handler) DeleteTranscript(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := transcriptID(c)
	if err != nil {
		return h.handleError(c, err)
	}
	t, err := h.store.DeleteTranscript(ctx, id)
	if err != nil {
		return h.handleError(c, err)
	}

	if t.Filename != "" {
		path := filepath.Join(h.uploadsDir, filepath.Base(t.Filename))
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			h.logger.Warn(ctx, "Failed to delete audio %s: %v", path, err)
		}
	}
	return c.NoContent(http.StatusNoContent)
}

func transcriptID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, errBadRequest("invalid transcript id", err)
	}
	return uint(id), nil
}
