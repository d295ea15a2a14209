// metrics.go — Prometheus HTTP метрики filedrop.
// Регистрирует метрики: fd_http_requests_total, fd_http_request_duration_seconds.
// Бизнес-метрики (fd_uploads_total и др.) регистрируются в internal/service.
package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP метрики
var (
	// httpRequestsTotal — общее количество HTTP-запросов.
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fd_http_requests_total",
			Help: "Общее количество HTTP-запросов к filedrop",
		},
		[]string{"method", "path", "status"},
	)

	// httpRequestDuration — гистограмма длительности HTTP-запросов.
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fd_http_request_duration_seconds",
			Help:    "Длительность HTTP-запросов к filedrop в секундах",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// MetricsMiddleware возвращает HTTP middleware для сбора Prometheus метрик.
// Записывает количество запросов и длительность для каждого endpoint.
func MetricsMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Нормализуем путь для лейблов метрик
			// (заменяем идентификаторы на {id}/{name} против взрыва кардинальности)
			normalizedPath := normalizePath(r.URL.Path)

			wrapped := newMetricsResponseWriter(w)
			next.ServeHTTP(wrapped, r)

			duration := time.Since(start).Seconds()
			status := strconv.Itoa(wrapped.statusCode)

			httpRequestsTotal.WithLabelValues(r.Method, normalizedPath, status).Inc()
			httpRequestDuration.WithLabelValues(r.Method, normalizedPath).Observe(duration)
		})
	}
}

// metricsResponseWriter — обёртка для перехвата статус-кода.
type metricsResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newMetricsResponseWriter(w http.ResponseWriter) *metricsResponseWriter {
	return &metricsResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func (rw *metricsResponseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Unwrap позволяет http.ResponseController получить доступ к оригинальному ResponseWriter.
func (rw *metricsResponseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// normalizePath заменяет изменяющиеся сегменты пути на плейсхолдеры.
// /api/v1/admin/files/file:1712000000000/approve → /api/v1/admin/files/{id}/approve
// /api/v1/admin/categories/School → /api/v1/admin/categories/{name}
func normalizePath(path string) string {
	const filesPrefix = "/api/v1/admin/files/"
	const categoriesPrefix = "/api/v1/admin/categories/"

	switch {
	case strings.HasPrefix(path, filesPrefix) && len(path) > len(filesPrefix):
		rest := path[len(filesPrefix):]
		if idx := strings.IndexByte(rest, '/'); idx != -1 {
			return filesPrefix + "{id}" + rest[idx:]
		}
		return filesPrefix + "{id}"
	case strings.HasPrefix(path, categoriesPrefix) && len(path) > len(categoriesPrefix):
		return categoriesPrefix + "{name}"
	}
	return path
}
