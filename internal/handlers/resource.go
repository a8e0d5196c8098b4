package handlers

import (
	"net/http"

	"coursestudio/internal/logger"
	"coursestudio/internal/models"
	"coursestudio/internal/services"
	helpers "coursestudio/internal/utils/helpers"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type ResourceHandler struct {
	svc services.ResourceService
}

func NewResourceHandler(svc services.ResourceService) *ResourceHandler {
	return &ResourceHandler{svc: svc}
}

// Create godoc
// @Summary      Прикрепить материал к разделу
// @Tags         resources
// @Security     ApiKeyAuth
// @Accept       json
// @Produce      json
// @Param        courseId   path      string                        true  "ID курса"
// @Param        sectionId  path      string                        true  "ID раздела"
// @Param        body       body      models.CreateResourceRequest  true  "Название и ссылка на файл"
// @Success      201        {object}  models.Resource
// @Router       /api/courses/{courseId}/sections/{sectionId}/resources [post]
func (h *ResourceHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	courseID, sectionID := sectionVars(r)

	var req models.CreateResourceRequest
	if err := decodeJSON(r, &req); err != nil {
		log.Warn("resources: невалидный JSON", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "Неверный формат запроса")
		return
	}

	res, err := h.svc.Create(r.Context(), uid, courseID, sectionID, req)
	if err != nil {
		writeServiceError(w, log.With(zap.String("section_id", sectionID)), "resources: ошибка добавления", err)
		return
	}
	helpers.JSON(w, http.StatusCreated, res)
}

// Delete godoc
// @Summary      Удалить материал
// @Description  Принимает POST (исторический контракт) и DELETE
// @Tags         resources
// @Security     ApiKeyAuth
// @Param        courseId    path  string  true  "ID курса"
// @Param        sectionId   path  string  true  "ID раздела"
// @Param        resourceId  path  string  true  "ID материала"
// @Success      204  {string}  string  "No Content"
// @Router       /api/courses/{courseId}/sections/{sectionId}/resources/{resourceId} [post]
// @Router       /api/courses/{courseId}/sections/{sectionId}/resources/{resourceId} [delete]
func (h *ResourceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	courseID, sectionID := sectionVars(r)
	id := mux.Vars(r)["resourceId"]

	if err := h.svc.Delete(r.Context(), uid, courseID, sectionID, id); err != nil {
		writeServiceError(w, log.With(zap.String("resource_id", id)), "resources: ошибка удаления", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
