package handlers

import (
	"coursestudio/internal/reqctx"
	"coursestudio/internal/services"
	helpers "coursestudio/internal/utils/helpers"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"
)

// writeServiceError переводит ошибку сервиса в HTTP-статус.
func writeServiceError(w http.ResponseWriter, log *zap.Logger, msg string, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		log.Warn(msg, zap.Error(err))
		helpers.Error(w, http.StatusNotFound, "Не найдено")
	case errors.Is(err, services.ErrForbidden):
		log.Warn(msg, zap.Error(err))
		helpers.Error(w, http.StatusForbidden, "Нет доступа")
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrIncomplete),
		errors.Is(err, services.ErrInvalidReorder),
		errors.Is(err, services.ErrInvalidCategory):
		log.Warn(msg, zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, err.Error())
	default:
		log.Error(msg, zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Внутренняя ошибка сервера")
	}
}

// currentUser достаёт пользователя, положенного JWTAuth. Без него отвечает 401.
func currentUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	uid, ok := reqctx.GetUserID(r.Context())
	if !ok {
		helpers.Error(w, http.StatusUnauthorized, "Не авторизован")
		return "", false
	}
	return uid, true
}

func decodeJSON(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}
