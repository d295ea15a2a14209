// Пакет blob — контракт blob-хранилища содержимого файлов.
// Реестр видит только этот интерфейс: запись по ключу, удаление
// и выдача подписанных ссылок с ограниченным сроком действия.
package blob

import (
	"context"
	"io"
	"time"
)

// Store — контракт blob-хранилища.
type Store interface {
	// Put записывает содержимое по ключу с указанным Content-Type.
	Put(ctx context.Context, key string, body io.Reader, contentType string) error
	// Remove удаляет объект по ключу.
	Remove(ctx context.Context, key string) error
	// SignedURL выдаёт подписанную ссылку на чтение объекта,
	// действительную в течение ttl.
	SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
	// EnsureBucket создаёт bucket, если он ещё не существует. Идемпотентна.
	EnsureBucket(ctx context.Context) error
	// BucketExists проверяет существование bucket (для health checks).
	BucketExists(ctx context.Context) (bool, error)
	// Bucket возвращает имя настроенного bucket.
	Bucket() string
}
