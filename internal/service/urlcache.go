// urlcache.go — LRU-кэш подписанных ссылок с TTL.
// Обёртка над hashicorp/golang-lru/v2/expirable. TTL кэша должен быть
// заметно меньше срока действия ссылки, чтобы клиент получал ссылку
// с достаточным остатком валидности.
package service

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// URLCache — per-instance кэш подписанных ссылок (storage path → URL).
type URLCache struct {
	cache *expirable.LRU[string, string]
}

// NewURLCache создаёт кэш с указанным размером и TTL.
func NewURLCache(maxSize int, ttl time.Duration) *URLCache {
	return &URLCache{
		cache: expirable.NewLRU[string, string](maxSize, nil, ttl),
	}
}

// Get возвращает ссылку из кэша по ключу объекта.
func (c *URLCache) Get(storagePath string) (string, bool) {
	url, ok := c.cache.Get(storagePath)
	if ok {
		urlCacheHitsTotal.Inc()
		return url, true
	}
	urlCacheMissesTotal.Inc()
	return "", false
}

// Set добавляет или обновляет ссылку в кэше.
func (c *URLCache) Set(storagePath, url string) {
	c.cache.Add(storagePath, url)
}

// Delete удаляет ссылку из кэша (инвалидация при удалении файла).
func (c *URLCache) Delete(storagePath string) {
	c.cache.Remove(storagePath)
}
