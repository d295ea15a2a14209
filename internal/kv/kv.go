// Пакет kv — контракт key-value хранилища filedrop.
// Реестр зависит только от этого интерфейса: плоское отображение
// строковых ключей в строковые значения с префиксным сканом.
// Сериализацией записей занимается сервисный слой, kv хранит байты.
package kv

import (
	"context"
	"errors"
)

// Ошибки слоя KV.
var (
	// ErrNotFound — ключ отсутствует в хранилище.
	ErrNotFound = errors.New("ключ не найден")
)

// Store — контракт key-value хранилища.
// GetByPrefix не гарантирует порядок результатов: вызывающий
// сортирует сам, если порядок важен.
type Store interface {
	// Get возвращает значение по ключу или ErrNotFound.
	Get(ctx context.Context, key string) (string, error)
	// Set записывает значение по ключу (перезаписывает существующее).
	Set(ctx context.Context, key, value string) error
	// Delete удаляет ключ. Отсутствующий ключ — не ошибка.
	Delete(ctx context.Context, key string) error
	// GetByPrefix возвращает значения всех ключей с указанным префиксом.
	GetByPrefix(ctx context.Context, prefix string) ([]string, error)
	// Ping проверяет доступность хранилища (для health checks).
	Ping(ctx context.Context) error
}
