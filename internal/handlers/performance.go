package handlers

import (
	"net/http"

	"coursestudio/internal/logger"
	"coursestudio/internal/services"
	helpers "coursestudio/internal/utils/helpers"
)

type PerformanceHandler struct {
	svc services.PerformanceService
}

func NewPerformanceHandler(svc services.PerformanceService) *PerformanceHandler {
	return &PerformanceHandler{svc: svc}
}

// Get godoc
// @Summary      Выручка по курсам преподавателя
// @Tags         performance
// @Security     ApiKeyAuth
// @Produce      json
// @Success      200  {object}  models.PerformanceReport
// @Router       /api/performance [get]
func (h *PerformanceHandler) Get(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	report, err := h.svc.Report(r.Context(), uid)
	if err != nil {
		writeServiceError(w, logger.WithCtx(r.Context()), "performance: ошибка построения отчёта", err)
		return
	}
	helpers.JSON(w, http.StatusOK, report)
}
