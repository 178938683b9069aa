package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-scheduler-api/internal/dto"
	"github.com/noah-isme/campus-scheduler-api/internal/service"
	appErrors "github.com/noah-isme/campus-scheduler-api/pkg/errors"
	"github.com/noah-isme/campus-scheduler-api/pkg/export"
	"github.com/noah-isme/campus-scheduler-api/pkg/response"
)

type schedulerRunner interface {
	Schedule(ctx context.Context, req dto.ScheduleRequest) (*dto.ScheduleResponse, error)
	Evaluate(ctx context.Context, req dto.EvaluateRequest) (*dto.EvaluateResponse, error)
	Task(ctx context.Context, taskID string) (*dto.ScheduleResponse, error)
}

// SchedulerHandler exposes the scheduling endpoints.
type SchedulerHandler struct {
	service schedulerRunner
	pdf     *export.PDFExporter
	csv     *export.CSVExporter
}

// NewSchedulerHandler constructs the handler.
func NewSchedulerHandler(svc schedulerRunner) *SchedulerHandler {
	return &SchedulerHandler{
		service: svc,
		pdf:     export.NewPDFExporter(),
		csv:     export.NewCSVExporter(),
	}
}

// Schedule godoc
// @Summary Generate a weekly timetable
// @Tags Scheduler
// @Accept json
// @Produce json
// @Param request body dto.ScheduleRequest true "Scheduling problem"
// @Success 201 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /scheduler [post]
func (h *SchedulerHandler) Schedule(c *gin.Context) {
	var req dto.ScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, []dto.ValidationFieldError{{Field: "body", Message: err.Error()}})
		return
	}

	resp, err := h.service.Schedule(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Created(c, "schedule generated", resp)
}

// Evaluate godoc
// @Summary Evaluate an existing schedule
// @Tags Scheduler
// @Accept json
// @Produce json
// @Param request body dto.EvaluateRequest true "Schedule plus problem data"
// @Success 200 {object} dto.EvaluateResponse
// @Failure 422 {object} response.Envelope
// @Router /scheduler/evaluate [post]
func (h *SchedulerHandler) Evaluate(c *gin.Context) {
	var req dto.EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, []dto.ValidationFieldError{{Field: "body", Message: err.Error()}})
		return
	}

	resp, err := h.service.Evaluate(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Raw(c, http.StatusOK, resp)
}

// Task godoc
// @Summary Fetch a finished run by task id
// @Tags Scheduler
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /scheduler/tasks/{id} [get]
func (h *SchedulerHandler) Task(c *gin.Context) {
	resp, err := h.service.Task(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.OK(c, "task result", resp)
}

// Export godoc
// @Summary Export a finished schedule as PDF or CSV
// @Tags Scheduler
// @Produce application/pdf
// @Param id path string true "Task ID"
// @Param format query string false "pdf or csv" default(pdf)
// @Success 200 {file} binary
// @Failure 404 {object} response.Envelope
// @Router /scheduler/tasks/{id}/export [get]
func (h *SchedulerHandler) Export(c *gin.Context) {
	taskID := c.Param("id")
	resp, err := h.service.Task(c.Request.Context(), taskID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	dataset := export.TimetableDataset(resp.BestSchedule, nil)

	switch c.DefaultQuery("format", "pdf") {
	case "csv":
		payload, err := h.csv.Render(dataset)
		if err != nil {
			h.writeError(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=timetable-%s.csv", taskID))
		c.Data(http.StatusOK, "text/csv", payload)
	default:
		payload, err := h.pdf.Render(dataset, "Weekly Timetable")
		if err != nil {
			h.writeError(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=timetable-%s.pdf", taskID))
		c.Data(http.StatusOK, "application/pdf", payload)
	}
}

func (h *SchedulerHandler) writeError(c *gin.Context, err error) {
	var verr *service.RequestValidationError
	if errors.As(err, &verr) {
		response.ValidationError(c, verr.Fields)
		return
	}
	appErr := appErrors.FromError(err)
	response.Error(c, appErr)
}
