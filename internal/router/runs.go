package router

import (
	"fmt"
	"net/http"

	"github.com/DjordjeVuckovic/vm-bench/internal/apperr"
	"github.com/DjordjeVuckovic/vm-bench/internal/storage"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// RunsRouter serves runs stored by a result sink.
type RunsRouter struct {
	e      *echo.Echo
	loader storage.RunLoader
}

func NewRunsRouter(e *echo.Echo, loader storage.RunLoader) *RunsRouter {
	return &RunsRouter{
		e:      e,
		loader: loader,
	}
}

func (r *RunsRouter) Bind() {
	r.e.GET("/runs/:id", r.getHandler)
}

type runResponse struct {
	RunID   uuid.UUID        `json:"run_id"`
	Records []storage.Record `json:"records"`
}

func (r *RunsRouter) getHandler(c echo.Context) error {
	runID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.NewValidationWrap("invalid run id", err)
	}

	records, err := r.loader.LoadRun(c.Request().Context(), runID)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("run %s not found", runID))
	}
	return c.JSON(http.StatusOK, runResponse{RunID: runID, Records: records})
}
