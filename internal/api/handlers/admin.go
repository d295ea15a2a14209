// admin.go — HTTP-обработчики парольного шлюза: проверка админского
// пароля и обновление обоих секретов.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	apierrors "github.com/bigkaa/filedrop/internal/api/errors"
	"github.com/bigkaa/filedrop/internal/service"
)

// AdminHandler — обработчики операций с секретами.
type AdminHandler struct {
	credentials *service.CredentialService
	logger      *slog.Logger
}

// NewAdminHandler создаёт обработчик секретов.
func NewAdminHandler(credentials *service.CredentialService, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		credentials: credentials,
		logger:      logger.With(slog.String("component", "admin_handler")),
	}
}

// Verify обрабатывает POST /api/v1/admin/verify.
// Тело: {"password": "..."}; ответ: {"valid": bool} со статусом 200
// в обоих случаях — несовпадение пароля здесь не ошибка протокола.
func (h *AdminHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, "некорректное тело запроса")
		return
	}

	valid, err := h.credentials.Verify(r.Context(), req.Password, service.RoleAdmin)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"valid": valid})
}

// UpdatePasswords обрабатывает PUT /api/v1/admin/passwords.
// Тело: {"downloadPassword": ..., "adminPassword": ...} — поля
// опциональны и независимы, пустые значения игнорируются.
func (h *AdminHandler) UpdatePasswords(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DownloadPassword string `json:"downloadPassword"`
		AdminPassword    string `json:"adminPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, "некорректное тело запроса")
		return
	}

	if err := h.credentials.UpdatePasswords(r.Context(), req.DownloadPassword, req.AdminPassword); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Пароли обновлены",
	})
}
