// categories.go — HTTP-обработчики таксономии категорий.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/bigkaa/filedrop/internal/api/errors"
	"github.com/bigkaa/filedrop/internal/service"
)

// CategoriesHandler — обработчики операций над категориями.
type CategoriesHandler struct {
	categories *service.CategoryService
	logger     *slog.Logger
}

// NewCategoriesHandler создаёт обработчик категорий.
func NewCategoriesHandler(categories *service.CategoryService, logger *slog.Logger) *CategoriesHandler {
	return &CategoriesHandler{
		categories: categories,
		logger:     logger.With(slog.String("component", "categories_handler")),
	}
}

// List обрабатывает GET /api/v1/categories.
func (h *CategoriesHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.List(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"categories": categories})
}

// Modify обрабатывает POST /api/v1/admin/categories.
// Два режима в одном endpoint: {"name": "..."} добавляет категорию,
// {"categories": [...]} заменяет порядок целиком. Ровно один из
// режимов должен присутствовать.
func (h *CategoriesHandler) Modify(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name       *string   `json:"name"`
		Categories *[]string `json:"categories"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, "некорректное тело запроса")
		return
	}

	switch {
	case req.Name != nil && req.Categories == nil:
		if err := h.categories.Add(r.Context(), *req.Name); err != nil {
			writeServiceError(w, h.logger, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": "Категория добавлена",
		})
	case req.Categories != nil && req.Name == nil:
		if err := h.categories.Reorder(r.Context(), *req.Categories); err != nil {
			writeServiceError(w, h.logger, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": "Порядок категорий обновлён",
		})
	default:
		apierrors.ValidationError(w, "ожидается либо name, либо categories")
	}
}

// Delete обрабатывает DELETE /api/v1/admin/categories/{name}.
// Имя в пути URL-кодировано (категории могут содержать пробелы).
func (h *CategoriesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if decoded, err := url.PathUnescape(name); err == nil {
		name = decoded
	}

	if err := h.categories.Delete(r.Context(), name); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Категория удалена",
	})
}
