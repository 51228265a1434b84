package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

const chatPlatform = "web"

// Chat answers a chatbot message and records song requests.
func (h *Handler) Chat(c echo.Context) error {
	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return h.handleError(c, errBadRequest("invalid body", err))
	}
	if err := c.Validate(&req); err != nil {
		return h.handleError(c, err)
	}

	reply, err := h.bot.Handle(c.Request().Context(), req.Username, chatPlatform, req.Text)
	if err != nil {
		return h.handleError(c, err)
	}
	return c.JSON(http.StatusOK, chatResponse{Reply: reply})
}

// ListRequests returns the most recent song requests.
func (h *Handler) ListRequests(c echo.Context) error {
	var q listQuery
	if err := c.Bind(&q); err != nil {
		return h.handleError(c, errBadRequest("invalid query", err))
	}
	if err := c.Validate(&q); err != nil {
		return h.handleError(c, err)
	}

	list, err := h.store.ListRequests(c.Request().Context(), q.Limit)
	if err != nil {
		return h.handleError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}
