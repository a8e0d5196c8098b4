package handlers

import (
	"net/http"

	"coursestudio/internal/logger"
	"coursestudio/internal/services"
	helpers "coursestudio/internal/utils/helpers"

	"go.uber.org/zap"
)

type CategoryHandler struct {
	svc services.CategoryService
}

func NewCategoryHandler(svc services.CategoryService) *CategoryHandler {
	return &CategoryHandler{svc: svc}
}

// List godoc
// @Summary      Категории с подкатегориями
// @Tags         categories
// @Security     ApiKeyAuth
// @Produce      json
// @Success      200  {array}  models.Category
// @Router       /api/categories [get]
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	list, err := h.svc.List(r.Context())
	if err != nil {
		writeServiceError(w, log, "categories: ошибка получения списка", err)
		return
	}
	log.Debug("categories: список получен", zap.Int("count", len(list)))
	helpers.JSON(w, http.StatusOK, list)
}
