package httpapi

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sebayufm/notulen/internal/minutes"
	"github.com/sebayufm/notulen/internal/store"
)

// Minutes returns the official minutes of a transcript with its markdown
// rendering. ?layout=local returns the compact layout instead.
func (h *Handler) Minutes(c echo.Context) error {
	t, meta, err := h.loadMinutesSource(c)
	if err != nil {
		return h.handleError(c, err)
	}

	if c.QueryParam("layout") == "local" {
		return c.JSON(http.StatusOK, minutes.BuildLocal(t.Source(), meta))
	}

	o := minutes.BuildOfficial(t.Source(), meta)
	return c.JSON(http.StatusOK, minutesResponse{
		Official: o,
		Markdown: minutes.RenderMarkdown(o),
		Meta:     meta,
	})
}

// UpdateMinutesMeta replaces the minutes metadata of a transcript. Keyword
// patterns are compiled first and rejected when invalid.
func (h *Handler) UpdateMinutesMeta(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := transcriptID(c)
	if err != nil {
		return h.handleError(c, err)
	}

	var req metaRequest
	if err := c.Bind(&req); err != nil {
		return h.handleError(c, errBadRequest("invalid body", err))
	}
	if err := c.Validate(&req); err != nil {
		return h.handleError(c, err)
	}

	meta := req.meta()
	if _, err := minutes.NewClassifier(meta.CustomKeywords()); err != nil {
		return h.handleError(c, errBadRequest("invalid keyword pattern: "+err.Error(), err))
	}

	if err := h.store.UpdateMeta(ctx, id, meta); err != nil {
		return h.handleError(c, err)
	}
	return c.JSON(http.StatusOK, meta)
}

// MinutesDocx downloads the official minutes as a Word document.
func (h *Handler) MinutesDocx(c echo.Context) error {
	ctx := c.Request().Context()
	t, meta, err := h.loadMinutesSource(c)
	if err != nil {
		return h.handleError(c, err)
	}

	o := minutes.BuildOfficial(t.Source(), meta)

	tmp, err := os.CreateTemp(h.tempDir, "minutes-*.docx")
	if err != nil {
		return h.handleError(c, errInternal(fmt.Errorf("create temp file: %w", err)))
	}
	path := tmp.Name()
	tmp.Close()
	defer os.Remove(path)

	if err := h.docs.Write(ctx, o, meta, path); err != nil {
		return h.handleError(c, errInternal(err))
	}
	return c.Attachment(path, docxName(t))
}

func (h *Handler) loadMinutesSource(c echo.Context) (*store.Transcript, minutes.Meta, error) {
	id, err := transcriptID(c)
	if err != nil {
		return nil, minutes.Meta{}, err
	}
	t, err := h.store.GetTranscript(c.Request().Context(), id)
	if err != nil {
		return nil, minutes.Meta{}, err
	}
	meta := t.Meta.Data().WithDefaults(h.defaults)
	if logo := c.QueryParam("logo"); logo != "" {
		meta.Logo = logo
	}
	return t, meta, nil
}

// docxName is "Notulen - <program> - <date>.docx".
func docxName(t *store.Transcript) string {
	program := strings.ReplaceAll(t.Program, "/", "-")
	if program == "" {
		program = "Notulen"
	}
	return fmt.Sprintf("Notulen - %s - %s.docx", program, t.CreatedAt.Local().Format("2006-01-02"))
}
