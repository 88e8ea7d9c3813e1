package router

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/manuelarcer/mlip-platform/internal/apperr"
	"github.com/manuelarcer/mlip-platform/internal/storage"
)

// ReportRouter exposes stored benchmark reports read-only.
type ReportRouter struct {
	e     *echo.Echo
	store storage.ReportStore
}

func NewReportRouter(e *echo.Echo, store storage.ReportStore) *ReportRouter {
	return &ReportRouter{
		e:     e,
		store: store,
	}
}

func (r *ReportRouter) Bind() {
	r.e.GET("/healthz", r.healthHandler)
	r.e.GET("/api/reports", r.listHandler)
	r.e.GET("/api/reports/:id", r.getHandler)
}

func (r *ReportRouter) healthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (r *ReportRouter) listHandler(c echo.Context) error {
	summaries, err := r.store.List(c.Request().Context())
	if err != nil {
		return fmt.Errorf("list reports: %w", err)
	}
	if summaries == nil {
		summaries = []storage.Summary{}
	}
	return c.JSON(http.StatusOK, summaries)
}

func (r *ReportRouter) getHandler(c echo.Context) error {
	runID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.NewValidationWrap("id must be a run UUID", err)
	}

	rep, err := r.store.Get(c.Request().Context(), runID)
	if err != nil {
		return fmt.Errorf("get report %s: %w", runID, err)
	}
	return c.JSON(http.StatusOK, rep)
}
