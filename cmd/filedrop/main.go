// Точка входа filedrop — сервис приёма и модерации файлов.
// Загружает конфигурацию, подключается к Redis и S3, собирает
// сервисный слой и HTTP-обработчики, запускает сервер с graceful
// shutdown. Инициализация хранилищ (bucket, пароли, категории)
// ленивая — выполняется на первом API-запросе.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/bigkaa/filedrop/internal/api/handlers"
	"github.com/bigkaa/filedrop/internal/blob"
	"github.com/bigkaa/filedrop/internal/config"
	"github.com/bigkaa/filedrop/internal/kv"
	"github.com/bigkaa/filedrop/internal/server"
	"github.com/bigkaa/filedrop/internal/service"
)

func main() {
	// 1. Загрузка конфигурации из переменных окружения
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Ошибка загрузки конфигурации", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 2. Настройка логирования
	logger := config.SetupLogger(cfg)
	logger.Info("filedrop запускается",
		slog.String("version", config.Version),
		slog.Int("port", cfg.Port),
	)

	// 3. KV-хранилище метаданных (Redis)
	store := kv.NewRedisStore(kv.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer store.Close()
	logger.Info("Redis клиент создан", slog.String("addr", cfg.RedisAddr))

	// 4. Blob-хранилище содержимого (S3)
	ctx := context.Background()
	blobs, err := blob.NewS3Store(ctx, blob.S3Options{
		Bucket:    cfg.S3Bucket,
		Region:    cfg.S3Region,
		Endpoint:  cfg.S3Endpoint,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		PathStyle: cfg.S3PathStyle,
	})
	if err != nil {
		logger.Error("Ошибка создания S3 клиента", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("S3 клиент создан",
		slog.String("bucket", cfg.S3Bucket),
		slog.String("region", cfg.S3Region),
	)

	// 5. Сервисный слой
	credentials := service.NewCredentialService(store, logger)
	categories := service.NewCategoryService(store, logger)
	urlCache := service.NewURLCache(cfg.URLCacheSize, cfg.URLCacheTTL)
	registry := service.NewRegistryService(store, blobs, credentials, urlCache,
		service.RegistryOptions{
			MaxFileSize: cfg.MaxFileSize,
			SignedTTL:   cfg.SignedURLTTL,
		}, logger)

	// 6. Ленивая инициализация хранилищ
	bootstrap := service.NewBootstrapper(blobs, credentials, categories,
		service.BootstrapDefaults{
			DownloadPassword: cfg.DefaultDownloadPassword,
			AdminPassword:    cfg.DefaultAdminPassword,
			Categories:       cfg.DefaultCategories,
		}, logger)

	// 7. HTTP-обработчики
	h := server.Handlers{
		Files:      handlers.NewFilesHandler(registry, cfg.MaxFileSize, logger),
		Categories: handlers.NewCategoriesHandler(categories, logger),
		Admin:      handlers.NewAdminHandler(credentials, logger),
		Health:     handlers.NewHealthHandler(store, blobs, bootstrap, logger),
	}

	// 8. Запуск сервера (блокирующий вызов с graceful shutdown)
	srv := server.New(cfg, logger, h, bootstrap)
	if err := srv.Run(); err != nil {
		logger.Error("Ошибка сервера", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("filedrop остановлен")
}
