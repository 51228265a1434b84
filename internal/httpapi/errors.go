package httpapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/sebayufm/notulen/internal/jobs"
	"github.com/sebayufm/notulen/internal/store"
)

// apiError is an error with a status code and a client facing message.
type apiError struct {
	Status  int
	Code    string
	Message string
	Raw     error
}

func (e *apiError) Error() string {
	if e.Raw != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Raw)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *apiError) Unwrap() error { return e.Raw }

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func errBadRequest(message string, raw error) *apiError {
	return &apiError{Status: http.StatusBadRequest, Code: "invalid_argument", Message: message, Raw: raw}
}

func errNotFound(resource string) *apiError {
	return &apiError{Status: http.StatusNotFound, Code: "not_found", Message: resource + " not found"}
}

func errInternal(err error) *apiError {
	return &apiError{Status: http.StatusInternalServerError, Code: "internal", Message: "Internal server error", Raw: err}
}

// toAPIError maps err to the response it should produce.
func toAPIError(err error) *apiError {
	var ae *apiError
	if errors.As(err, &ae) {
		return ae
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		return errBadRequest(ve.Error(), err)
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return &apiError{Status: he.Code, Code: http.StatusText(he.Code), Message: fmt.Sprint(he.Message)}
	}
	switch {
	case errors.Is(err, store.ErrNotFound):
		return errNotFound("transcript")
	case errors.Is(err, jobs.ErrUnknownJob):
		return errNotFound("job")
	}
	return errInternal(err)
}

// handleError writes err as a JSON error body.
func (h *Handler) handleError(c echo.Context, err error) error {
	ae := toAPIError(err)
	ctx := c.Request().Context()
	if ae.Status >= http.StatusInternalServerError {
		h.logger.Error(ctx, "%s %s: %v", c.Request().Method, c.Path(), err)
	} else {
		h.logger.Debug(ctx, "%s %s: %v", c.Request().Method, c.Path(), err)
	}
	return c.JSON(ae.Status, errorBody{Error: ae.Code, Message: ae.Message})
}
