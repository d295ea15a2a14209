package config

import (
	"log/slog"
	"os"
	"testing"
	"time"
)

// setEnvVars устанавливает переменные окружения для теста и возвращает
// функцию очистки. Всегда вызывать defer cleanup().
func setEnvVars(t *testing.T, vars map[string]string) func() {
	t.Helper()

	// Сохраняем оригинальные значения
	originals := make(map[string]string)
	origSet := make(map[string]bool)
	for k := range vars {
		if v, ok := os.LookupEnv(k); ok {
			originals[k] = v
			origSet[k] = true
		}
	}

	// Устанавливаем новые
	for k, v := range vars {
		os.Setenv(k, v)
	}

	return func() {
		for k := range vars {
			if origSet[k] {
				os.Setenv(k, originals[k])
			} else {
				os.Unsetenv(k)
			}
		}
	}
}

// clearAllFDEnvVars очищает все переменные окружения FD_* для чистого теста.
func clearAllFDEnvVars(t *testing.T) func() {
	t.Helper()
	keys := []string{
		"FD_PORT", "FD_LOG_LEVEL", "FD_LOG_FORMAT",
		"FD_HTTP_READ_TIMEOUT", "FD_HTTP_WRITE_TIMEOUT", "FD_HTTP_IDLE_TIMEOUT",
		"FD_SHUTDOWN_TIMEOUT",
		"FD_REDIS_ADDR", "FD_REDIS_PASSWORD", "FD_REDIS_DB",
		"FD_S3_ENDPOINT", "FD_S3_REGION", "FD_S3_BUCKET",
		"FD_S3_ACCESS_KEY", "FD_S3_SECRET_KEY", "FD_S3_PATH_STYLE",
		"FD_MAX_FILE_SIZE", "FD_SIGNED_URL_TTL",
		"FD_URL_CACHE_SIZE", "FD_URL_CACHE_TTL",
		"FD_DEFAULT_DOWNLOAD_PASSWORD", "FD_DEFAULT_ADMIN_PASSWORD",
		"FD_DEFAULT_CATEGORIES",
	}
	originals := make(map[string]string)
	origSet := make(map[string]bool)
	for _, k := range keys {
		if v, ok := os.LookupEnv(k); ok {
			originals[k] = v
			origSet[k] = true
		}
		os.Unsetenv(k)
	}
	return func() {
		for _, k := range keys {
			if origSet[k] {
				os.Setenv(k, originals[k])
			} else {
				os.Unsetenv(k)
			}
		}
	}
}

// requiredEnvVars возвращает минимальный набор обязательных переменных.
func requiredEnvVars() map[string]string {
	return map[string]string{
		"FD_REDIS_ADDR": "localhost:6379",
	}
}

func TestLoad_DefaultValues(t *testing.T) {
	cleanup := clearAllFDEnvVars(t)
	defer cleanup()

	cleanupVars := setEnvVars(t, requiredEnvVars())
	defer cleanupVars()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	// Проверяем значения по умолчанию
	if cfg.Port != 8080 {
		t.Errorf("Port: ожидалось 8080, получено %d", cfg.Port)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel: ожидалось info, получено %v", cfg.LogLevel)
	}
	if cfg.LogFormat != "json" {
		t.Errorf("LogFormat: ожидалось 'json', получено %q", cfg.LogFormat)
	}
	if cfg.S3Bucket != "filedrop-files" {
		t.Errorf("S3Bucket: ожидалось 'filedrop-files', получено %q", cfg.S3Bucket)
	}
	if cfg.S3Region != "us-east-1" {
		t.Errorf("S3Region: ожидалось 'us-east-1', получено %q", cfg.S3Region)
	}
	if !cfg.S3PathStyle {
		t.Error("S3PathStyle: ожидалось true")
	}
	if cfg.MaxFileSize != 100<<20 {
		t.Errorf("MaxFileSize: ожидалось %d, получено %d", 100<<20, cfg.MaxFileSize)
	}
	if cfg.SignedURLTTL != time.Hour {
		t.Errorf("SignedURLTTL: ожидалось 1h, получено %v", cfg.SignedURLTTL)
	}
	if cfg.URLCacheSize != 1024 {
		t.Errorf("URLCacheSize: ожидалось 1024, получено %d", cfg.URLCacheSize)
	}
	if cfg.URLCacheTTL != 10*time.Minute {
		t.Errorf("URLCacheTTL: ожидалось 10m, получено %v", cfg.URLCacheTTL)
	}
	if cfg.ShutdownTimeout != 5*time.Second {
		t.Errorf("ShutdownTimeout: ожидалось 5s, получено %v", cfg.ShutdownTimeout)
	}
	if cfg.DefaultDownloadPassword != "download123" {
		t.Errorf("DefaultDownloadPassword: получено %q", cfg.DefaultDownloadPassword)
	}
	if cfg.DefaultAdminPassword != "admin123" {
		t.Errorf("DefaultAdminPassword: получено %q", cfg.DefaultAdminPassword)
	}
	wantCategories := []string{"College", "School", "University", "Other"}
	if len(cfg.DefaultCategories) != len(wantCategories) {
		t.Fatalf("DefaultCategories: получено %v", cfg.DefaultCategories)
	}
	for i, want := range wantCategories {
		if cfg.DefaultCategories[i] != want {
			t.Errorf("DefaultCategories[%d] = %q, ожидалось %q", i, cfg.DefaultCategories[i], want)
		}
	}
}

func TestLoad_MissingRedisAddr(t *testing.T) {
	cleanup := clearAllFDEnvVars(t)
	defer cleanup()

	_, err := Load()
	if err == nil {
		t.Fatal("ожидалась ошибка при отсутствии FD_REDIS_ADDR")
	}
}

func TestLoad_CustomValues(t *testing.T) {
	cleanup := clearAllFDEnvVars(t)
	defer cleanup()

	cleanupVars := setEnvVars(t, map[string]string{
		"FD_REDIS_ADDR":         "redis.internal:6380",
		"FD_REDIS_DB":           "3",
		"FD_PORT":               "9090",
		"FD_LOG_LEVEL":          "debug",
		"FD_LOG_FORMAT":         "text",
		"FD_S3_ENDPOINT":        "http://minio:9000",
		"FD_S3_BUCKET":          "uploads",
		"FD_MAX_FILE_SIZE":      "10485760",
		"FD_SIGNED_URL_TTL":     "30m",
		"FD_URL_CACHE_TTL":      "5m",
		"FD_DEFAULT_CATEGORIES": "Docs, Media ,",
	})
	defer cleanupVars()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	if cfg.RedisAddr != "redis.internal:6380" {
		t.Errorf("RedisAddr: получено %q", cfg.RedisAddr)
	}
	if cfg.RedisDB != 3 {
		t.Errorf("RedisDB: ожидалось 3, получено %d", cfg.RedisDB)
	}
	if cfg.Port != 9090 {
		t.Errorf("Port: ожидалось 9090, получено %d", cfg.Port)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel: ожидалось debug, получено %v", cfg.LogLevel)
	}
	if cfg.S3Endpoint != "http://minio:9000" {
		t.Errorf("S3Endpoint: получено %q", cfg.S3Endpoint)
	}
	if cfg.MaxFileSize != 10485760 {
		t.Errorf("MaxFileSize: ожидалось 10485760, получено %d", cfg.MaxFileSize)
	}
	if cfg.SignedURLTTL != 30*time.Minute {
		t.Errorf("SignedURLTTL: ожидалось 30m, получено %v", cfg.SignedURLTTL)
	}
	// Пустые элементы и пробелы в списке категорий отбрасываются
	if len(cfg.DefaultCategories) != 2 || cfg.DefaultCategories[0] != "Docs" || cfg.DefaultCategories[1] != "Media" {
		t.Errorf("DefaultCategories: получено %v", cfg.DefaultCategories)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		vars map[string]string
	}{
		{"некорректный порт", map[string]string{"FD_PORT": "not-a-number"}},
		{"некорректный уровень логирования", map[string]string{"FD_LOG_LEVEL": "verbose"}},
		{"некорректный формат логов", map[string]string{"FD_LOG_FORMAT": "xml"}},
		{"некорректная длительность", map[string]string{"FD_SIGNED_URL_TTL": "1 hour"}},
		{"нулевой лимит размера", map[string]string{"FD_MAX_FILE_SIZE": "0"}},
		{"TTL кэша больше срока подписи", map[string]string{
			"FD_SIGNED_URL_TTL": "5m",
			"FD_URL_CACHE_TTL":  "10m",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleanup := clearAllFDEnvVars(t)
			defer cleanup()

			vars := requiredEnvVars()
			for k, v := range tt.vars {
				vars[k] = v
			}
			cleanupVars := setEnvVars(t, vars)
			defer cleanupVars()

			if _, err := Load(); err == nil {
				t.Error("ожидалась ошибка валидации")
			}
		})
	}
}
