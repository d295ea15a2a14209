// redis.go — реализация Store поверх Redis (go-redis/v9).
// Префиксный скан через SCAN MATCH + MGET, без блокировки сервера
// командой KEYS.
package kv

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

// RedisStore — key-value хранилище поверх Redis.
type RedisStore struct {
	client *redis.Client
}

// Options — параметры подключения к Redis.
type Options struct {
	// Addr — адрес сервера (host:port)
	Addr string
	// Password — пароль (пустой = без аутентификации)
	Password string
	// DB — номер логической базы
	DB int
}

// NewRedisStore создаёт хранилище с новым подключением к Redis.
func NewRedisStore(opts Options) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	return &RedisStore{client: client}
}

// NewRedisStoreWithClient создаёт хранилище поверх готового клиента
// (используется в тестах с miniredis).
func NewRedisStoreWithClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Get возвращает значение по ключу или ErrNotFound.
func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("redis GET %s: %w", key, err)
	}
	return val, nil
}

// Set записывает значение по ключу без TTL.
func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis SET %s: %w", key, err)
	}
	return nil
}

// Delete удаляет ключ. Отсутствующий ключ — не ошибка.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis DEL %s: %w", key, err)
	}
	return nil
}

// GetByPrefix возвращает значения всех ключей с указанным префиксом.
// SCAN собирает ключи курсором, затем один MGET забирает значения.
// Ключи, удалённые между SCAN и MGET, пропускаются.
func (s *RedisStore) GetByPrefix(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	iter := s.client.Scan(ctx, 0, escapeGlob(prefix)+"*", 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redis SCAN %s*: %w", prefix, err)
	}
	if len(keys) == 0 {
		return []string{}, nil
	}

	raw, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis MGET: %w", err)
	}

	values := make([]string, 0, len(raw))
	for _, v := range raw {
		if v == nil {
			continue
		}
		if str, ok := v.(string); ok {
			values = append(values, str)
		}
	}
	return values, nil
}

// Ping проверяет доступность Redis.
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis PING: %w", err)
	}
	return nil
}

// Close закрывает подключение к Redis.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// escapeGlob экранирует спецсимволы glob-шаблона SCAN MATCH,
// чтобы префикс сравнивался буквально.
func escapeGlob(s string) string {
	r := strings.NewReplacer(`*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`, `\`, `\\`)
	return r.Replace(s)
}

// Проверка на этапе компиляции
var _ Store = (*RedisStore)(nil)
