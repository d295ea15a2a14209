// Пакет server — HTTP-сервер filedrop с graceful shutdown.
// Без TLS — HTTP внутри кластера, TLS termination на API Gateway.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	apierrors "github.com/bigkaa/filedrop/internal/api/errors"
	"github.com/bigkaa/filedrop/internal/api/handlers"
	"github.com/bigkaa/filedrop/internal/api/middleware"
	"github.com/bigkaa/filedrop/internal/config"
	"github.com/bigkaa/filedrop/internal/service"
)

// Handlers — набор HTTP-обработчиков, монтируемых сервером.
type Handlers struct {
	Files      *handlers.FilesHandler
	Categories *handlers.CategoriesHandler
	Admin      *handlers.AdminHandler
	Health     *handlers.HealthHandler
}

// Server — HTTP-сервер filedrop.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	cfg        *config.Config
}

// New создаёт HTTP-сервер с настроенными routes и middleware.
// bootstrap выполняет ленивую инициализацию хранилищ: каждый
// API-запрос проходит через Ensure, пока инициализация не удалась.
func New(cfg *config.Config, logger *slog.Logger, h Handlers, bootstrap *service.Bootstrapper) *Server {
	router := chi.NewRouter()

	router.Use(middleware.RequestID())
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.RequestLogger(logger))

	// Служебные endpoints — без ленивой инициализации
	router.Get("/health/live", h.Health.Live)
	router.Get("/health/ready", h.Health.Ready)
	router.Handle("/metrics", promhttp.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(ensureBootstrap(bootstrap, logger))

		r.Get("/health", h.Health.Health)

		// Публичная поверхность
		r.Post("/files/upload", h.Files.Upload)
		r.Post("/files/approved", h.Files.ListApproved)
		r.Get("/categories", h.Categories.List)

		// Админская поверхность. Per-request аутентификации нет:
		// фронтенд проверяет пароль через /admin/verify, сами
		// endpoints доверяют вызывающему (известное ограничение).
		r.Route("/admin", func(r chi.Router) {
			r.Post("/verify", h.Admin.Verify)
			r.Put("/passwords", h.Admin.UpdatePasswords)

			r.Get("/files", h.Files.ListAll)
			r.Post("/files/{fileID}/approve", h.Files.Approve)
			r.Post("/files/{fileID}/reject", h.Files.Reject)
			r.Put("/files/{fileID}", h.Files.Update)
			r.Delete("/files/{fileID}", h.Files.Delete)

			r.Post("/categories", h.Categories.Modify)
			r.Delete("/categories/{name}", h.Categories.Delete)
		})
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	return &Server{
		httpServer: srv,
		logger:     logger,
		cfg:        cfg,
	}
}

// ensureBootstrap — middleware ленивой инициализации хранилищ.
// Неудачная попытка отдаёт 500 и повторяется на следующем запросе.
func ensureBootstrap(bootstrap *service.Bootstrapper, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := bootstrap.Ensure(r.Context()); err != nil {
				logger.Error("Инициализация хранилищ не удалась",
					slog.String("error", err.Error()),
				)
				apierrors.StorageUnavailable(w, "инициализация хранилищ не удалась")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Run запускает сервер и ожидает сигнала завершения (SIGINT, SIGTERM).
// При получении сигнала выполняется graceful shutdown.
func (s *Server) Run() error {
	// Канал для ошибок сервера
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("HTTP-сервер запущен",
			slog.String("addr", s.httpServer.Addr),
		)

		err := s.httpServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		s.logger.Info("Получен сигнал завершения", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("ошибка HTTP-сервера: %w", err)
		}
	}

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	s.logger.Info("Выполняется graceful shutdown...")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("ошибка при graceful shutdown: %w", err)
	}

	s.logger.Info("HTTP-сервер остановлен")
	return nil
}
