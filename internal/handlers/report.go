package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"mindboard/internal/middleware"
	"mindboard/internal/services"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	reports *services.ReportService
	logger  *slog.Logger
}

func NewReportHandler(reports *services.ReportService, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{reports: reports, logger: logger}
}

type reportRequest struct {
	SelectOption string   `json:"selectOption" binding:"required"`
	FormData     []string `json:"formData" binding:"required"`
	AnswerData   []string `json:"answerData" binding:"required"`
	ReportValue  string   `json:"reportValue" binding:"required"`
}

// Save appends a report to the signed-in user's history.
func (h *ReportHandler) Save(c *gin.Context) {
	var req reportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BindError(c, err)
		return
	}

	report, err := h.reports.Save(c.Request.Context(), middleware.CurrentUserNum(c), services.ReportInput{
		SelectOption: req.SelectOption,
		FormData:     req.FormData,
		AnswerData:   req.AnswerData,
		ReportValue:  req.ReportValue,
	})
	if err != nil {
		RenderError(c, h.logger, err)
		return
	}
	Respond(c, http.StatusCreated, "report saved", report)
}

// List returns the caller's own reports; other users' reports are private.
func (h *ReportHandler) List(c *gin.Context) {
	target := c.Param("userNum")
	if !services.CanMutate(middleware.CurrentUserNum(c), target) {
		RenderError(c, h.logger, fmt.Errorf("%w: reports are only visible to their owner", services.ErrForbidden))
		return
	}

	reports, err := h.reports.List(c.Request.Context(), target)
	if err != nil {
		RenderError(c, h.logger, err)
		return
	}
	Respond(c, http.StatusOK, "reports loaded", reports)
}
