// health.go — обработчики проверки состояния сервиса.
// /api/v1/health — расширенный статус для фронтенда и мониторинга,
// /health/live и /health/ready — пробы для kubernetes.
package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/bigkaa/filedrop/internal/blob"
	"github.com/bigkaa/filedrop/internal/kv"
	"github.com/bigkaa/filedrop/internal/service"
)

// HealthHandler — обработчики health-endpoints.
type HealthHandler struct {
	store     kv.Store
	blobs     blob.Store
	bootstrap *service.Bootstrapper
	logger    *slog.Logger
}

// NewHealthHandler создаёт обработчик health-endpoints.
func NewHealthHandler(
	store kv.Store,
	blobs blob.Store,
	bootstrap *service.Bootstrapper,
	logger *slog.Logger,
) *HealthHandler {
	return &HealthHandler{
		store:     store,
		blobs:     blobs,
		bootstrap: bootstrap,
		logger:    logger.With(slog.String("component", "health_handler")),
	}
}

// Health обрабатывает GET /api/v1/health — расширенный статус.
// Ошибка пробы blob store — это 500 со status=error, а не "ok"
// с bucketExists=false: недоступное хранилище не маскируется.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	bucketExists, err := h.blobs.BucketExists(r.Context())
	if err != nil {
		h.logger.Error("Ошибка проверки bucket", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"status":      "error",
			"error":       "проверка bucket не удалась",
			"initialized": h.bootstrap.Initialized(),
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":       "ok",
		"initialized":  h.bootstrap.Initialized(),
		"bucketExists": bucketExists,
		"bucketName":   h.blobs.Bucket(),
		"timestamp":    time.Now().UTC().Format(time.RFC3339),
	})
}

// Live обрабатывает GET /health/live — процесс жив.
func (h *HealthHandler) Live(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// Ready обрабатывает GET /health/ready — зависимости доступны.
// Проверяет KV (ping) и blob store (существование bucket).
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		h.logger.Warn("KV хранилище недоступно", slog.String("error", err.Error()))
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"reason": "kv",
		})
		return
	}

	if _, err := h.blobs.BucketExists(r.Context()); err != nil {
		h.logger.Warn("Blob хранилище недоступно", slog.String("error", err.Error()))
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"reason": "blob",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
