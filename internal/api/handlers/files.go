// files.go — HTTP-обработчики реестра файлов: загрузка, листинги,
// модерация, обновление метаданных и удаление.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/bigkaa/filedrop/internal/api/errors"
	"github.com/bigkaa/filedrop/internal/service"
)

// multipartMemoryLimit — сколько байт multipart-формы держим в памяти,
// остальное уходит во временные файлы.
const multipartMemoryLimit = 32 << 20 // 32 MiB

// FilesHandler — обработчики операций над файлами.
type FilesHandler struct {
	registry    *service.RegistryService
	maxFileSize int64
	logger      *slog.Logger
}

// NewFilesHandler создаёт обработчик файлов.
func NewFilesHandler(registry *service.RegistryService, maxFileSize int64, logger *slog.Logger) *FilesHandler {
	return &FilesHandler{
		registry:    registry,
		maxFileSize: maxFileSize,
		logger:      logger.With(slog.String("component", "files_handler")),
	}
}

// Upload обрабатывает POST /api/v1/files/upload.
// Принимает multipart/form-data: file, title, category, description.
func (h *FilesHandler) Upload(w http.ResponseWriter, r *http.Request) {
	// Жёсткий лимит на всё тело запроса: файл плюс накладные расходы формы
	r.Body = http.MaxBytesReader(w, r.Body, h.maxFileSize+multipartMemoryLimit)

	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			apierrors.FileTooLarge(w,
				fmt.Sprintf("размер запроса превышает лимит %d байт", h.maxFileSize))
			return
		}
		apierrors.ValidationError(w, "некорректная multipart-форма")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		apierrors.ValidationError(w, "обязательны поля title, category и file")
		return
	}
	defer file.Close()

	id, err := h.registry.Upload(r.Context(), service.UploadParams{
		Title:       r.FormValue("title"),
		Category:    r.FormValue("category"),
		Description: r.FormValue("description"),
		FileName:    header.Filename,
		FileType:    header.Header.Get("Content-Type"),
		FileSize:    header.Size,
		Content:     file,
	})
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Файл загружен и ожидает модерации",
		"fileId":  id,
	})
}

// ListApproved обрабатывает POST /api/v1/files/approved.
// Тело: {"password": "...", "category": "..."} (category опциональна).
func (h *FilesHandler) ListApproved(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password"`
		Category string `json:"category"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, "некорректное тело запроса")
		return
	}

	files, err := h.registry.ListApproved(r.Context(), req.Password, req.Category)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"files": files})
}

// ListAll обрабатывает GET /api/v1/admin/files.
// Возвращает все записи независимо от статуса, новые первыми.
func (h *FilesHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	files, err := h.registry.ListAll(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"files": files})
}

// Approve обрабатывает POST /api/v1/admin/files/{fileID}/approve.
func (h *FilesHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "fileID")
	if err := h.registry.Approve(r.Context(), id); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Файл одобрен",
	})
}

// Reject обрабатывает POST /api/v1/admin/files/{fileID}/reject.
func (h *FilesHandler) Reject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "fileID")
	if err := h.registry.Reject(r.Context(), id); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Файл отклонён",
	})
}

// Update обрабатывает PUT /api/v1/admin/files/{fileID}.
// Тело: {"title": ..., "category": ..., "description": ...} — все
// поля опциональны, отсутствующие остаются без изменений.
func (h *FilesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "fileID")

	var req struct {
		Title       *string `json:"title"`
		Category    *string `json:"category"`
		Description *string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, "некорректное тело запроса")
		return
	}

	err := h.registry.UpdateMetadata(r.Context(), id, service.MetadataUpdate{
		Title:       req.Title,
		Category:    req.Category,
		Description: req.Description,
	})
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Метаданные обновлены",
	})
}

// Delete обрабатывает DELETE /api/v1/admin/files/{fileID}.
func (h *FilesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "fileID")
	if err := h.registry.Delete(r.Context(), id); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Файл удалён",
	})
}
