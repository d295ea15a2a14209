package service

import (
	"testing"
	"time"
)

// TestURLCache_GetSet проверяет базовые операции кэша ссылок.
func TestURLCache_GetSet(t *testing.T) {
	cache := NewURLCache(100, 5*time.Minute)

	if _, ok := cache.Get("School/100-a.pdf"); ok {
		t.Fatal("ожидался cache miss для нового ключа")
	}

	cache.Set("School/100-a.pdf", "https://blobs.example/a?sig=1")
	url, ok := cache.Get("School/100-a.pdf")
	if !ok {
		t.Fatal("ожидался cache hit после Set")
	}
	if url != "https://blobs.example/a?sig=1" {
		t.Errorf("url = %q, ожидался %q", url, "https://blobs.example/a?sig=1")
	}
}

// TestURLCache_Delete проверяет инвалидацию при удалении файла.
func TestURLCache_Delete(t *testing.T) {
	cache := NewURLCache(100, 5*time.Minute)

	cache.Set("k", "v")
	cache.Delete("k")
	if _, ok := cache.Get("k"); ok {
		t.Fatal("ожидался cache miss после Delete")
	}
}

// TestURLCache_TTLExpiration проверяет автоматическое истечение TTL.
func TestURLCache_TTLExpiration(t *testing.T) {
	cache := NewURLCache(100, 50*time.Millisecond)

	cache.Set("k", "v")
	if _, ok := cache.Get("k"); !ok {
		t.Fatal("ожидался cache hit сразу после Set")
	}

	time.Sleep(100 * time.Millisecond)

	if _, ok := cache.Get("k"); ok {
		t.Fatal("ожидался cache miss после истечения TTL")
	}
}
