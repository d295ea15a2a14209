// common.go — общие помощники HTTP-обработчиков filedrop.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	apierrors "github.com/bigkaa/filedrop/internal/api/errors"
	"github.com/bigkaa/filedrop/internal/service"
)

// writeJSON сериализует v в тело ответа со статусом statusCode.
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

// writeServiceError переводит ошибку сервисного слоя в HTTP-ответ
// стандартного формата. Неизвестные ошибки отдаются как 500 с
// обобщённым сообщением (детали — только в лог).
func writeServiceError(w http.ResponseWriter, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		apierrors.ValidationError(w, err.Error())
	case errors.Is(err, service.ErrUnauthorized):
		apierrors.Unauthorized(w, "неверный пароль")
	case errors.Is(err, service.ErrNotFound):
		apierrors.NotFound(w, err.Error())
	case errors.Is(err, service.ErrDuplicate):
		apierrors.Duplicate(w, err.Error())
	case errors.Is(err, service.ErrTooLarge):
		apierrors.FileTooLarge(w, err.Error())
	case errors.Is(err, service.ErrStorageUnavailable):
		logger.Error("Хранилище недоступно", slog.String("error", err.Error()))
		apierrors.StorageUnavailable(w, "хранилище временно недоступно")
	default:
		logger.Error("Внутренняя ошибка", slog.String("error", err.Error()))
		apierrors.InternalError(w, "внутренняя ошибка сервера")
	}
}
