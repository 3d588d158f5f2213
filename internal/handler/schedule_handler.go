package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/dsa-enrollment-api/internal/dto"
	"github.com/noah-isme/dsa-enrollment-api/internal/models"
	"github.com/noah-isme/dsa-enrollment-api/internal/validator"
	"github.com/noah-isme/dsa-enrollment-api/pkg/response"
)

type scheduleService interface {
	List(ctx context.Context, filter models.ScheduleFilter) ([]models.ScheduleView, error)
	ExportCSV(ctx context.Context, filter models.ScheduleFilter) ([]byte, error)
}

// ScheduleHandler manages training schedule endpoints.
type ScheduleHandler struct {
	service scheduleService
}

// NewScheduleHandler constructs handler.
func NewScheduleHandler(svc scheduleService) *ScheduleHandler {
	return &ScheduleHandler{service: svc}
}

// List godoc
// @Summary List training batches
// @Tags Schedule
// @Produce json
// @Param status query string false "all, upcoming, ongoing or completed"
// @Param search query string false "Matches course, batch or instructor"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /training-schedule [get]
func (h *ScheduleHandler) List(c *gin.Context) {
	filter, ok := scheduleFilter(c)
	if !ok {
		return
	}
	views, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, views, map[string]interface{}{"total": len(views)})
}

// Export godoc
// @Summary Export training batches as CSV
// @Tags Schedule
// @Produce text/csv
// @Param status query string false "all, upcoming, ongoing or completed"
// @Param search query string false "Matches course, batch or instructor"
// @Success 200 {file} file
// @Router /training-schedule/export.csv [get]
func (h *ScheduleHandler) Export(c *gin.Context) {
	filter, ok := scheduleFilter(c)
	if !ok {
		return
	}
	out, err := h.service.ExportCSV(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, "training-schedule.csv", "text/csv", out)
}

func scheduleFilter(c *gin.Context) (models.ScheduleFilter, bool) {
	var query dto.ScheduleQuery
	if err := validator.BindQuery(c, &query); err != nil {
		response.Error(c, err)
		return models.ScheduleFilter{}, false
	}
	return models.ScheduleFilter{Status: query.Status, Search: query.Search}, true
}
