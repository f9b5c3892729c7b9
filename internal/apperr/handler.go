package apperr

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
)

type errorBody struct {
	Error string `json:"error"`
	Title string `json:"title,omitempty"`
}

// GlobalErrorHandler renders typed errors as JSON. Anything unrecognised is logged and hidden behind a 500.
func GlobalErrorHandler() echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body := classify(err)
		if status == http.StatusInternalServerError {
			slog.Error("Unhandled error", "method", c.Request().Method, "uri", c.Request().RequestURI, "error", err)
		}
		_ = c.JSON(status, body)
	}
}

func classify(err error) (int, errorBody) {
	var (
		ve *ValidationError
		se *ShapeMismatchError
		he *echo.HTTPError
	)
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, errorBody{Error: ve.Error(), Title: "validation error"}
	case errors.As(err, &se):
		return http.StatusUnprocessableEntity, errorBody{Error: se.Error(), Title: "shape mismatch"}
	case errors.As(err, &he):
		return he.Code, errorBody{Error: fmt.Sprint(he.Message)}
	default:
		return http.StatusInternalServerError, errorBody{Error: "internal server error"}
	}
}
