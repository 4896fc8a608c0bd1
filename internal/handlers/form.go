package handlers

import (
	"log/slog"
	"net/http"

	"mindboard/internal/services"

	"github.com/gin-gonic/gin"
)

type FormHandler struct {
	forms  *services.FormService
	logger *slog.Logger
}

func NewFormHandler(forms *services.FormService, logger *slog.Logger) *FormHandler {
	return &FormHandler{forms: forms, logger: logger}
}

func (h *FormHandler) List(c *gin.Context) {
	forms, err := h.forms.List(c.Request.Context())
	if err != nil {
		RenderError(c, h.logger, err)
		return
	}
	Respond(c, http.StatusOK, "questionnaires loaded", forms)
}

func (h *FormHandler) Find(c *gin.Context) {
	forms, err := h.forms.FindByOption(c.Request.Context(), c.Param("option"))
	if err != nil {
		RenderError(c, h.logger, err)
		return
	}
	Respond(c, http.StatusOK, "questionnaire loaded", forms)
}
