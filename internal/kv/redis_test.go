package kv

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// newTestStore создаёт RedisStore поверх miniredis.
func newTestStore(t *testing.T) *RedisStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStoreWithClient(client)
}

// TestRedisStore_GetSet проверяет базовые операции Get/Set.
func TestRedisStore_GetSet(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	// Get отсутствующего ключа — ErrNotFound
	_, err := store.Get(ctx, "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get(missing) = %v, ожидался ErrNotFound", err)
	}

	// Set + Get
	if err := store.Set(ctx, "config:admin-password", "admin123"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := store.Get(ctx, "config:admin-password")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != "admin123" {
		t.Errorf("Get = %q, ожидался %q", got, "admin123")
	}

	// Перезапись существующего значения
	if err := store.Set(ctx, "config:admin-password", "rotated"); err != nil {
		t.Fatalf("Set (overwrite): %v", err)
	}
	got, _ = store.Get(ctx, "config:admin-password")
	if got != "rotated" {
		t.Errorf("Get после перезаписи = %q, ожидался %q", got, "rotated")
	}
}

// TestRedisStore_Delete проверяет удаление, включая отсутствующий ключ.
func TestRedisStore_Delete(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	if err := store.Set(ctx, "file:100", "{}"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := store.Delete(ctx, "file:100"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(ctx, "file:100"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get после Delete = %v, ожидался ErrNotFound", err)
	}

	// Повторное удаление — не ошибка
	if err := store.Delete(ctx, "file:100"); err != nil {
		t.Errorf("Delete отсутствующего ключа: %v", err)
	}
}

// TestRedisStore_GetByPrefix проверяет префиксный скан.
func TestRedisStore_GetByPrefix(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	seed := map[string]string{
		"file:100":                 "a",
		"file:200":                 "b",
		"file:300":                 "c",
		"categories":               "x",
		"config:download-password": "y",
	}
	for k, v := range seed {
		if err := store.Set(ctx, k, v); err != nil {
			t.Fatalf("Set(%s): %v", k, err)
		}
	}

	values, err := store.GetByPrefix(ctx, "file:")
	if err != nil {
		t.Fatalf("GetByPrefix: %v", err)
	}
	sort.Strings(values)
	want := []string{"a", "b", "c"}
	if len(values) != len(want) {
		t.Fatalf("GetByPrefix вернул %d значений, ожидалось %d", len(values), len(want))
	}
	for i := range want {
		if values[i] != want[i] {
			t.Errorf("values[%d] = %q, ожидалось %q", i, values[i], want[i])
		}
	}
}

// TestRedisStore_GetByPrefixEmpty проверяет скан без совпадений.
func TestRedisStore_GetByPrefixEmpty(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	values, err := store.GetByPrefix(ctx, "file:")
	if err != nil {
		t.Fatalf("GetByPrefix: %v", err)
	}
	if len(values) != 0 {
		t.Errorf("GetByPrefix на пустой базе = %d значений, ожидалось 0", len(values))
	}
}

// TestRedisStore_Ping проверяет health-probe хранилища.
func TestRedisStore_Ping(t *testing.T) {
	store := newTestStore(t)
	if err := store.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}
