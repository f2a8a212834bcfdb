package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"creator-payments/internal/models"
	"creator-payments/internal/reporting"
	"creator-payments/internal/services"
)

// ReportingHandler serves the admin revenue dashboard. Authorization is
// the edge's concern; these handlers assume the caller is allowed in.
type ReportingHandler struct {
	reports *services.ReportingService
	tz      *time.Location
}

// NewReportingHandler creates a new reporting handler
func NewReportingHandler(reports *services.ReportingService, tz *time.Location) *ReportingHandler {
	return &ReportingHandler{reports: reports, tz: tz}
}

// GetSummary handles GET /api/v1/admin/reports/summary
func (h *ReportingHandler) GetSummary(c *gin.Context) {
	filter := services.SummaryFilter{}

	creatorID, ok := parseCreatorParam(c)
	if !ok {
		return
	}
	filter.CreatorID = creatorID

	from, ok := parseTimeParam(c, "from")
	if !ok {
		return
	}
	to, ok := parseTimeParam(c, "to")
	if !ok {
		return
	}
	filter.From = from
	filter.To = to

	summary, err := h.reports.Summary(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Failed to compute summary",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GetDailySeries handles GET /api/v1/admin/reports/daily. Defaults to the
// last 30 days when no range is given.
func (h *ReportingHandler) GetDailySeries(c *gin.Context) {
	h.serveSeries(c, 30, h.reports.DailySeries)
}

// GetMonthlySeries handles GET /api/v1/admin/reports/monthly. Defaults to
// the last 365 days when no range is given.
func (h *ReportingHandler) GetMonthlySeries(c *gin.Context) {
	h.serveSeries(c, 365, h.reports.MonthlySeries)
}

type seriesFunc func(ctx context.Context, creatorID *uuid.UUID, start, end time.Time) ([]reporting.Bucket, error)

func (h *ReportingHandler) serveSeries(c *gin.Context, defaultDays int, fetch seriesFunc) {
	creatorID, ok := parseCreatorParam(c)
	if !ok {
		return
	}
	from, ok := parseTimeParam(c, "from")
	if !ok {
		return
	}
	to, ok := parseTimeParam(c, "to")
	if !ok {
		return
	}

	now := time.Now().In(h.tz)
	end := now
	if to != nil {
		end = *to
	}
	start := end.AddDate(0, 0, -defaultDays)
	if from != nil {
		start = *from
	}
	if start.After(end) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid range",
			Message: "from must not be after to",
		})
		return
	}

	buckets, err := fetch(c.Request.Context(), creatorID, start, end)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Failed to compute series",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"buckets": buckets})
}

// parseCreatorParam reads an optional creatorId query param. Writes the
// error response itself and returns ok=false on bad input.
func parseCreatorParam(c *gin.Context) (*uuid.UUID, bool) {
	creator := c.Query("creatorId")
	if creator == "" {
		return nil, true
	}
	id, err := uuid.Parse(creator)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid creatorId",
			Message: "creatorId must be a UUID",
		})
		return nil, false
	}
	return &id, true
}

// parseTimeParam reads an optional RFC 3339 or date-only query param.
func parseTimeParam(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		t, err = time.Parse("2006-01-02", raw)
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid " + name,
			Message: name + " must be RFC 3339 or YYYY-MM-DD",
		})
		return nil, false
	}
	return &t, true
}
