// Package helpers отвечает клиенту в едином конверте {"data": ..., "error": "..."}.
// Успешный ответ несёт только data, ошибка только error.
package helpers

import (
	"coursestudio/internal/logger"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

type Response struct {
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

func JSON(w http.ResponseWriter, status int, data any) {
	write(w, status, Response{Data: data})
}

// Error отвечает сообщением для пользователя. Внутренние детали сюда не передаются.
func Error(w http.ResponseWriter, status int, errMsg string) {
	write(w, status, Response{Error: errMsg})
}

func write(w http.ResponseWriter, status int, body Response) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		// заголовки уже отправлены, остаётся только записать в лог
		logger.Log.Warn("Не удалось записать ответ", zap.Int("status", status), zap.Error(err))
	}
}
