// Пакет config — загрузка и валидация конфигурации filedrop
// из переменных окружения.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Версия приложения, задаётся при сборке через -ldflags.
var Version = "dev"

// Config содержит все параметры конфигурации filedrop.
type Config struct {
	// --- Сервер ---

	// Порт HTTP-сервера
	Port int
	// Уровень логирования (debug, info, warn, error)
	LogLevel slog.Level
	// Формат логов (json, text)
	LogFormat string

	// --- HTTP Server Timeouts ---

	// Таймаут чтения HTTP-сервера (по умолчанию 30s)
	HTTPReadTimeout time.Duration
	// Таймаут записи HTTP-сервера (по умолчанию 60s)
	HTTPWriteTimeout time.Duration
	// Таймаут простоя HTTP-сервера (по умолчанию 120s)
	HTTPIdleTimeout time.Duration

	// --- Graceful shutdown ---

	// Таймаут graceful shutdown (по умолчанию 5s)
	ShutdownTimeout time.Duration

	// --- Redis (KV-хранилище метаданных) ---

	// Адрес Redis (host:port), обязательный параметр
	RedisAddr string
	// Пароль Redis (опционально)
	RedisPassword string
	// Номер БД Redis
	RedisDB int

	// --- S3 (blob-хранилище содержимого) ---

	// Endpoint S3-совместимого хранилища (пусто — AWS по умолчанию)
	S3Endpoint string
	// Регион S3
	S3Region string
	// Имя bucket
	S3Bucket string
	// Статические креды (для MinIO; пусто — credential chain AWS SDK)
	S3AccessKey string
	S3SecretKey string
	// Path-style адресация (требуется для MinIO)
	S3PathStyle bool

	// --- Файлы и ссылки ---

	// Максимальный размер загружаемого файла в байтах
	MaxFileSize int64
	// Срок действия подписанных ссылок
	SignedURLTTL time.Duration
	// Размер LRU-кэша подписанных ссылок
	URLCacheSize int
	// TTL записей кэша ссылок (должен быть меньше SignedURLTTL)
	URLCacheTTL time.Duration

	// --- Значения по умолчанию при первом запуске ---

	// Пароль роли download по умолчанию
	DefaultDownloadPassword string
	// Пароль роли admin по умолчанию
	DefaultAdminPassword string
	// Стартовый список категорий
	DefaultCategories []string
}

// Load загружает конфигурацию из переменных окружения.
// Возвращает ошибку, если обязательные переменные не заданы
// или значения некорректны.
func Load() (*Config, error) {
	cfg := &Config{}
	var err error

	// --- Сервер ---

	// FD_PORT — порт HTTP-сервера (по умолчанию 8080)
	cfg.Port, err = getEnvInt("FD_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("FD_PORT: %w", err)
	}

	// FD_LOG_LEVEL — уровень логирования (по умолчанию info)
	logLevel := getEnvDefault("FD_LOG_LEVEL", "info")
	cfg.LogLevel, err = parseLogLevel(logLevel)
	if err != nil {
		return nil, fmt.Errorf("FD_LOG_LEVEL: %w", err)
	}

	// FD_LOG_FORMAT — формат логов (по умолчанию json)
	cfg.LogFormat = getEnvDefault("FD_LOG_FORMAT", "json")
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("FD_LOG_FORMAT: недопустимый формат %q, допустимые: json, text", cfg.LogFormat)
	}

	// --- HTTP Server Timeouts ---

	// FD_HTTP_READ_TIMEOUT — таймаут чтения (по умолчанию 30s)
	cfg.HTTPReadTimeout, err = getEnvDuration("FD_HTTP_READ_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("FD_HTTP_READ_TIMEOUT: %w", err)
	}

	// FD_HTTP_WRITE_TIMEOUT — таймаут записи (по умолчанию 60s)
	cfg.HTTPWriteTimeout, err = getEnvDuration("FD_HTTP_WRITE_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, fmt.Errorf("FD_HTTP_WRITE_TIMEOUT: %w", err)
	}

	// FD_HTTP_IDLE_TIMEOUT — таймаут простоя (по умолчанию 120s)
	cfg.HTTPIdleTimeout, err = getEnvDuration("FD_HTTP_IDLE_TIMEOUT", 120*time.Second)
	if err != nil {
		return nil, fmt.Errorf("FD_HTTP_IDLE_TIMEOUT: %w", err)
	}

	// FD_SHUTDOWN_TIMEOUT — таймаут graceful shutdown (по умолчанию 5s)
	cfg.ShutdownTimeout, err = getEnvDuration("FD_SHUTDOWN_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("FD_SHUTDOWN_TIMEOUT: %w", err)
	}

	// --- Redis ---

	// FD_REDIS_ADDR — адрес Redis, обязательный
	cfg.RedisAddr, err = getEnvRequired("FD_REDIS_ADDR")
	if err != nil {
		return nil, err
	}

	// FD_REDIS_PASSWORD — пароль Redis (по умолчанию пусто)
	cfg.RedisPassword = getEnvDefault("FD_REDIS_PASSWORD", "")

	// FD_REDIS_DB — номер БД Redis (по умолчанию 0)
	cfg.RedisDB, err = getEnvInt("FD_REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("FD_REDIS_DB: %w", err)
	}

	// --- S3 ---

	// FD_S3_ENDPOINT — endpoint S3 (по умолчанию пусто — AWS)
	cfg.S3Endpoint = getEnvDefault("FD_S3_ENDPOINT", "")

	// FD_S3_REGION — регион (по умолчанию us-east-1)
	cfg.S3Region = getEnvDefault("FD_S3_REGION", "us-east-1")

	// FD_S3_BUCKET — имя bucket (по умолчанию filedrop-files)
	cfg.S3Bucket = getEnvDefault("FD_S3_BUCKET", "filedrop-files")

	// FD_S3_ACCESS_KEY / FD_S3_SECRET_KEY — статические креды (опционально)
	cfg.S3AccessKey = getEnvDefault("FD_S3_ACCESS_KEY", "")
	cfg.S3SecretKey = getEnvDefault("FD_S3_SECRET_KEY", "")

	// FD_S3_PATH_STYLE — path-style адресация (по умолчанию true для MinIO)
	cfg.S3PathStyle, err = getEnvBool("FD_S3_PATH_STYLE", true)
	if err != nil {
		return nil, fmt.Errorf("FD_S3_PATH_STYLE: %w", err)
	}

	// --- Файлы и ссылки ---

	// FD_MAX_FILE_SIZE — лимит размера файла в байтах (по умолчанию 100 MiB)
	cfg.MaxFileSize, err = getEnvInt64("FD_MAX_FILE_SIZE", 100<<20)
	if err != nil {
		return nil, fmt.Errorf("FD_MAX_FILE_SIZE: %w", err)
	}
	if cfg.MaxFileSize <= 0 {
		return nil, fmt.Errorf("FD_MAX_FILE_SIZE: значение должно быть > 0")
	}

	// FD_SIGNED_URL_TTL — срок действия подписанных ссылок (по умолчанию 1h)
	cfg.SignedURLTTL, err = getEnvDuration("FD_SIGNED_URL_TTL", time.Hour)
	if err != nil {
		return nil, fmt.Errorf("FD_SIGNED_URL_TTL: %w", err)
	}

	// FD_URL_CACHE_SIZE — размер кэша ссылок (по умолчанию 1024)
	cfg.URLCacheSize, err = getEnvInt("FD_URL_CACHE_SIZE", 1024)
	if err != nil {
		return nil, fmt.Errorf("FD_URL_CACHE_SIZE: %w", err)
	}

	// FD_URL_CACHE_TTL — TTL кэша ссылок (по умолчанию 10m)
	cfg.URLCacheTTL, err = getEnvDuration("FD_URL_CACHE_TTL", 10*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("FD_URL_CACHE_TTL: %w", err)
	}

	// Кэшированная ссылка не должна жить дольше своей подписи
	if cfg.URLCacheTTL >= cfg.SignedURLTTL {
		return nil, fmt.Errorf("FD_URL_CACHE_TTL (%s) должен быть меньше FD_SIGNED_URL_TTL (%s)",
			cfg.URLCacheTTL, cfg.SignedURLTTL)
	}

	// --- Значения по умолчанию при первом запуске ---

	// FD_DEFAULT_DOWNLOAD_PASSWORD — пароль download по умолчанию
	cfg.DefaultDownloadPassword = getEnvDefault("FD_DEFAULT_DOWNLOAD_PASSWORD", "download123")

	// FD_DEFAULT_ADMIN_PASSWORD — пароль admin по умолчанию
	cfg.DefaultAdminPassword = getEnvDefault("FD_DEFAULT_ADMIN_PASSWORD", "admin123")

	// FD_DEFAULT_CATEGORIES — стартовые категории через запятую
	cfg.DefaultCategories = splitCategories(
		getEnvDefault("FD_DEFAULT_CATEGORIES", "College,School,University,Other"))

	return cfg, nil
}

// SetupLogger настраивает глобальный slog-логгер на основе конфигурации.
func SetupLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// --- Вспомогательные функции ---

// getEnvRequired возвращает значение переменной окружения или ошибку, если она не задана.
func getEnvRequired(key string) (string, error) {
	val := os.Getenv(key)
	if val == "" {
		return "", fmt.Errorf("%s: обязательная переменная окружения не задана", key)
	}
	return val, nil
}

// getEnvDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getEnvInt возвращает целочисленное значение переменной окружения или значение по умолчанию.
func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("некорректное целое число: %q", val)
	}
	return n, nil
}

// getEnvInt64 возвращает 64-битное целое из переменной окружения или значение по умолчанию.
func getEnvInt64(key string, defaultVal int64) (int64, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("некорректное целое число: %q", val)
	}
	return n, nil
}

// getEnvDuration возвращает time.Duration из переменной окружения или значение по умолчанию.
func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("некорректная длительность: %q (используйте формат Go: 30s, 1h, 15m)", val)
	}
	return d, nil
}

// getEnvBool возвращает булево значение переменной окружения или значение по умолчанию.
func getEnvBool(key string, defaultVal bool) (bool, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("некорректное булево значение: %q (допустимые: true, false, 1, 0)", val)
	}
	return b, nil
}

// parseLogLevel преобразует строку уровня логирования в slog.Level.
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("недопустимый уровень %q, допустимые: debug, info, warn, error", level)
	}
}

// splitCategories разбирает список категорий через запятую,
// отбрасывая пустые элементы и пробелы по краям.
func splitCategories(raw string) []string {
	parts := strings.Split(raw, ",")
	categories := make([]string, 0, len(parts))
	for _, part := range parts {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		categories = append(categories, name)
	}
	return categories
}
