// metrics.go — Prometheus-метрики бизнес-операций filedrop.
// HTTP-метрики (fd_http_*) регистрируются в internal/api/middleware.
package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// uploadsTotal — количество загрузок по результату.
	uploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fd_uploads_total",
		Help: "Общее количество загрузок файлов",
	}, []string{"result"})

	// operationsTotal — количество операций реестра по результату.
	operationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fd_operations_total",
		Help: "Общее количество операций реестра файлов",
	}, []string{"operation", "result"})

	// signedURLsTotal — количество выдач подписанных ссылок.
	signedURLsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fd_signed_urls_total",
		Help: "Общее количество запросов подписанных ссылок",
	}, []string{"result"})

	// passwordChecksTotal — количество проверок паролей по роли и результату.
	passwordChecksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fd_password_checks_total",
		Help: "Общее количество проверок паролей",
	}, []string{"role", "result"})

	// urlCacheHitsTotal — попадания в кэш подписанных ссылок.
	urlCacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fd_url_cache_hits_total",
		Help: "Общее количество попаданий в кэш подписанных ссылок",
	})

	// urlCacheMissesTotal — промахи кэша подписанных ссылок.
	urlCacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fd_url_cache_misses_total",
		Help: "Общее количество промахов кэша подписанных ссылок",
	})

	// bootstrapTotal — попытки ленивой инициализации по результату.
	bootstrapTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fd_bootstrap_total",
		Help: "Общее количество попыток инициализации хранилищ",
	}, []string{"result"})
)
