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

type SectionHandler struct {
	svc services.SectionService
}

func NewSectionHandler(svc services.SectionService) *SectionHandler {
	return &SectionHandler{svc: svc}
}

func sectionVars(r *http.Request) (courseID, id string) {
	v := mux.Vars(r)
	return v["courseId"], v["sectionId"]
}

// Create godoc
// @Summary      Создать раздел
// @Description  Новый раздел добавляется в конец курса
// @Tags         sections
// @Security     ApiKeyAuth
// @Accept       json
// @Produce      json
// @Param        courseId  path      string                       true  "ID курса"
// @Param        body      body      models.CreateSectionRequest  true  "Название"
// @Success      201       {object}  models.Section
// @Router       /api/courses/{courseId}/sections [post]
func (h *SectionHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	courseID, _ := sectionVars(r)

	var req models.CreateSectionRequest
	if err := decodeJSON(r, &req); err != nil {
		log.Warn("sections: невалидный JSON при создании", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "Неверный формат запроса")
		return
	}

	s, err := h.svc.Create(r.Context(), uid, courseID, req)
	if err != nil {
		writeServiceError(w, log.With(zap.String("course_id", courseID)), "sections: ошибка создания", err)
		return
	}
	helpers.JSON(w, http.StatusCreated, s)
}

// Reorder godoc
// @Summary      Переставить разделы
// @Description  Полная перестановка: каждый раздел курса ровно один раз, позиции 0..N-1
// @Tags         sections
// @Security     ApiKeyAuth
// @Accept       json
// @Param        courseId  path  string                 true  "ID курса"
// @Param        body      body  models.ReorderRequest  true  "Новые позиции"
// @Success      200  {object}  helpers.Response
// @Failure      400  {object}  helpers.Response
// @Router       /api/courses/{courseId}/sections/reorder [put]
func (h *SectionHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	courseID, _ := sectionVars(r)

	var req models.ReorderRequest
	if err := decodeJSON(r, &req); err != nil {
		log.Warn("sections: невалидный JSON при перестановке", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "Неверный формат запроса")
		return
	}

	if err := h.svc.Reorder(r.Context(), uid, courseID, req.List); err != nil {
		writeServiceError(w, log.With(zap.String("course_id", courseID)), "sections: ошибка перестановки", err)
		return
	}
	helpers.JSON(w, http.StatusOK, map[string]string{"message": "Success"})
}

// Get godoc
// @Summary      Раздел с материалами, видео и прогрессом
// @Tags         sections
// @Security     ApiKeyAuth
// @Produce      json
// @Param        courseId   path      string  true  "ID курса"
// @Param        sectionId  path      string  true  "ID раздела"
// @Success      200        {object}  models.SectionDetail
// @Failure      404        {object}  helpers.Response
// @Router       /api/courses/{courseId}/sections/{sectionId} [get]
func (h *SectionHandler) Get(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	courseID, id := sectionVars(r)

	d, err := h.svc.GetDetail(r.Context(), uid, courseID, id)
	if err != nil {
		writeServiceError(w, log.With(zap.String("section_id", id)), "sections: раздел недоступен", err)
		return
	}
	helpers.JSON(w, http.StatusOK, d)
}

// Update godoc
// @Summary      Обновить раздел
// @Description  Смена videoUrl пересоздаёт видео-ассет
// @Tags         sections
// @Security     ApiKeyAuth
// @Accept       json
// @Produce      json
// @Param        courseId   path      string                       true  "ID курса"
// @Param        sectionId  path      string                       true  "ID раздела"
// @Param        body       body      models.UpdateSectionRequest  true  "Поля раздела"
// @Success      200        {object}  models.Section
// @Router       /api/courses/{courseId}/sections/{sectionId} [post]
func (h *SectionHandler) Update(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	courseID, id := sectionVars(r)

	var req models.UpdateSectionRequest
	if err := decodeJSON(r, &req); err != nil {
		log.Warn("sections: невалидный JSON при обновлении", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "Неверный формат запроса")
		return
	}

	s, err := h.svc.Update(r.Context(), uid, courseID, id, req)
	if err != nil {
		writeServiceError(w, log.With(zap.String("section_id", id)), "sections: ошибка обновления", err)
		return
	}
	helpers.JSON(w, http.StatusOK, s)
}

// Publish godoc
// @Summary      Опубликовать раздел
// @Description  Требует название, описание и видео
// @Tags         sections
// @Security     ApiKeyAuth
// @Produce      json
// @Param        courseId   path      string  true  "ID курса"
// @Param        sectionId  path      string  true  "ID раздела"
// @Success      200        {object}  models.Section
// @Failure      400        {object}  helpers.Response
// @Router       /api/courses/{courseId}/sections/{sectionId}/publish [post]
func (h *SectionHandler) Publish(w http.ResponseWriter, r *http.Request) {
	h.setPublish(w, r, true)
}

// Unpublish godoc
// @Summary      Снять раздел с публикации
// @Description  Если опубликованных разделов не осталось, курс тоже снимается с публикации
// @Tags         sections
// @Security     ApiKeyAuth
// @Produce      json
// @Param        courseId   path      string  true  "ID курса"
// @Param        sectionId  path      string  true  "ID раздела"
// @Success      200        {object}  models.Section
// @Router       /api/courses/{courseId}/sections/{sectionId}/unpublish [post]
func (h *SectionHandler) Unpublish(w http.ResponseWriter, r *http.Request) {
	h.setPublish(w, r, false)
}

func (h *SectionHandler) setPublish(w http.ResponseWriter, r *http.Request, publish bool) {
	log := logger.WithCtx(r.Context())
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	courseID, id := sectionVars(r)

	s, err := h.svc.SetPublish(r.Context(), uid, courseID, id, publish)
	if err != nil {
		writeServiceError(w, log.With(zap.String("section_id", id)), "sections: ошибка смены статуса публикации", err)
		return
	}
	helpers.JSON(w, http.StatusOK, s)
}

// Delete godoc
// @Summary      Удалить раздел
// @Description  Позиции оставшихся разделов уплотняются
// @Tags         sections
// @Security     ApiKeyAuth
// @Param        courseId   path  string  true  "ID курса"
// @Param        sectionId  path  string  true  "ID раздела"
// @Success      204  {string}  string  "No Content"
// @Router       /api/courses/{courseId}/sections/{sectionId} [delete]
func (h *SectionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	courseID, id := sectionVars(r)

	if err := h.svc.Delete(r.Context(), uid, courseID, id); err != nil {
		writeServiceError(w, log.With(zap.String("section_id", id)), "sections: ошибка удаления", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
