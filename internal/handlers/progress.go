package handlers

import (
	"net/http"

	"coursestudio/internal/logger"
	"coursestudio/internal/models"
	"coursestudio/internal/services"
	helpers "coursestudio/internal/utils/helpers"

	"go.uber.org/zap"
)

type ProgressHandler struct {
	svc services.ProgressService
}

func NewProgressHandler(svc services.ProgressService) *ProgressHandler {
	return &ProgressHandler{svc: svc}
}

// Set godoc
// @Summary      Отметить раздел пройденным
// @Tags         progress
// @Security     ApiKeyAuth
// @Accept       json
// @Param        courseId   path  string                  true  "ID курса"
// @Param        sectionId  path  string                  true  "ID раздела"
// @Param        body       body  models.ProgressRequest  true  "Новое состояние"
// @Success      200  {object}  models.ProgressRequest
// @Router       /api/courses/{courseId}/sections/{sectionId}/progress [post]
func (h *ProgressHandler) Set(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	courseID, sectionID := sectionVars(r)

	var req models.ProgressRequest
	if err := decodeJSON(r, &req); err != nil {
		log.Warn("progress: невалидный JSON", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "Неверный формат запроса")
		return
	}

	if err := h.svc.Set(r.Context(), uid, courseID, sectionID, req.IsCompleted); err != nil {
		writeServiceError(w, log.With(zap.String("section_id", sectionID)), "progress: ошибка сохранения", err)
		return
	}
	helpers.JSON(w, http.StatusOK, req)
}
