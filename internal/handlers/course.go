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

type CourseHandler struct {
	svc services.CourseService
}

func NewCourseHandler(svc services.CourseService) *CourseHandler {
	return &CourseHandler{svc: svc}
}

// Create godoc
// @Summary      Создать курс
// @Tags         courses
// @Security     ApiKeyAuth
// @Accept       json
// @Produce      json
// @Param        body  body      models.CreateCourseRequest  true  "Название и категория"
// @Success      201   {object}  models.Course
// @Failure      400   {object}  helpers.Response
// @Router       /api/courses [post]
func (h *CourseHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req models.CreateCourseRequest
	if err := decodeJSON(r, &req); err != nil {
		log.Warn("courses: невалидный JSON при создании", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "Неверный формат запроса")
		return
	}

	c, err := h.svc.Create(r.Context(), uid, req)
	if err != nil {
		writeServiceError(w, log, "courses: ошибка создания", err)
		return
	}
	helpers.JSON(w, http.StatusCreated, c)
}

// List godoc
// @Summary      Курсы преподавателя
// @Tags         courses
// @Security     ApiKeyAuth
// @Produce      json
// @Success      200  {array}   models.Course
// @Router       /api/courses [get]
func (h *CourseHandler) List(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}

	list, err := h.svc.List(r.Context(), uid)
	if err != nil {
		writeServiceError(w, log, "courses: ошибка получения списка", err)
		return
	}
	if list == nil {
		list = []*models.Course{}
	}
	helpers.JSON(w, http.StatusOK, list)
}

// Get godoc
// @Summary      Курс с упорядоченными разделами
// @Tags         courses
// @Security     ApiKeyAuth
// @Produce      json
// @Param        courseId  path      string  true  "ID курса"
// @Success      200       {object}  models.Course
// @Failure      404       {object}  helpers.Response
// @Router       /api/courses/{courseId} [get]
func (h *CourseHandler) Get(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	id := mux.Vars(r)["courseId"]

	c, err := h.svc.Get(r.Context(), uid, id)
	if err != nil {
		writeServiceError(w, log.With(zap.String("course_id", id)), "courses: курс недоступен", err)
		return
	}
	helpers.JSON(w, http.StatusOK, c)
}

// Update godoc
// @Summary      Обновить карточку курса
// @Tags         courses
// @Security     ApiKeyAuth
// @Accept       json
// @Produce      json
// @Param        courseId  path      string                      true  "ID курса"
// @Param        body      body      models.UpdateCourseRequest  true  "Изменяемые поля"
// @Success      200       {object}  models.Course
// @Failure      400       {object}  helpers.Response
// @Router       /api/courses/{courseId} [patch]
func (h *CourseHandler) Update(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	id := mux.Vars(r)["courseId"]

	var req models.UpdateCourseRequest
	if err := decodeJSON(r, &req); err != nil {
		log.Warn("courses: невалидный JSON при обновлении", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "Неверный формат запроса")
		return
	}

	c, err := h.svc.Update(r.Context(), uid, id, req)
	if err != nil {
		writeServiceError(w, log.With(zap.String("course_id", id)), "courses: ошибка обновления", err)
		return
	}
	helpers.JSON(w, http.StatusOK, c)
}

// Publish godoc
// @Summary      Опубликовать курс
// @Description  Требует заполненную карточку и хотя бы один опубликованный раздел
// @Tags         courses
// @Security     ApiKeyAuth
// @Produce      json
// @Param        courseId  path      string  true  "ID курса"
// @Success      200       {object}  models.Course
// @Failure      400       {object}  helpers.Response
// @Router       /api/courses/{courseId}/publish [post]
func (h *CourseHandler) Publish(w http.ResponseWriter, r *http.Request) {
	h.setPublish(w, r, true)
}

// Unpublish godoc
// @Summary      Снять курс с публикации
// @Tags         courses
// @Security     ApiKeyAuth
// @Produce      json
// @Param        courseId  path      string  true  "ID курса"
// @Success      200       {object}  models.Course
// @Router       /api/courses/{courseId}/unpublish [post]
func (h *CourseHandler) Unpublish(w http.ResponseWriter, r *http.Request) {
	h.setPublish(w, r, false)
}

func (h *CourseHandler) setPublish(w http.ResponseWriter, r *http.Request, publish bool) {
	log := logger.WithCtx(r.Context())
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	id := mux.Vars(r)["courseId"]

	c, err := h.svc.SetPublish(r.Context(), uid, id, publish)
	if err != nil {
		writeServiceError(w, log.With(zap.String("course_id", id)), "courses: ошибка смены статуса публикации", err)
		return
	}
	helpers.JSON(w, http.StatusOK, c)
}

// Delete godoc
// @Summary      Удалить курс
// @Tags         courses
// @Security     ApiKeyAuth
// @Param        courseId  path  string  true  "ID курса"
// @Success      204  {string}  string  "No Content"
// @Failure      404  {object}  helpers.Response
// @Router       /api/courses/{courseId} [delete]
func (h *CourseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	id := mux.Vars(r)["courseId"]

	if err := h.svc.Delete(r.Context(), uid, id); err != nil {
		writeServiceError(w, log.With(zap.String("course_id", id)), "courses: ошибка удаления", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
