package service

import (
	"context"
	"errors"
	"sync"
	"testing"
)

// newTestBootstrapper собирает инициализатор поверх miniredis и fakeBlob.
func newTestBootstrapper(t *testing.T) (*Bootstrapper, *fakeBlob, *CredentialService, *CategoryService) {
	t.Helper()
	store := newTestKV(t)
	blobs := newFakeBlob()
	logger := testLogger()
	creds := NewCredentialService(store, logger)
	cats := NewCategoryService(store, logger)

	b := NewBootstrapper(blobs, creds, cats, BootstrapDefaults{
		DownloadPassword: "download123",
		AdminPassword:    "admin123",
		Categories:       []string{"College", "School", "University", "Other"},
	}, logger)
	return b, blobs, creds, cats
}

// TestBootstrap_SeedsDefaults проверяет полный прогон инициализации.
func TestBootstrap_SeedsDefaults(t *testing.T) {
	b, blobs, creds, cats := newTestBootstrapper(t)
	ctx := context.Background()

	if b.Initialized() {
		t.Fatal("Initialized() == true до первого Ensure")
	}
	if err := b.Ensure(ctx); err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if !b.Initialized() {
		t.Fatal("Initialized() == false после успешного Ensure")
	}

	if exists, _ := blobs.BucketExists(ctx); !exists {
		t.Error("bucket не создан")
	}
	if ok, _ := creds.Verify(ctx, "download123", RoleDownload); !ok {
		t.Error("download-пароль не засеян")
	}
	if ok, _ := creds.Verify(ctx, "admin123", RoleAdmin); !ok {
		t.Error("admin-пароль не засеян")
	}
	categories, _ := cats.List(ctx)
	if len(categories) != 4 {
		t.Errorf("категорий засеяно %d, ожидалось 4", len(categories))
	}
}

// TestBootstrap_ConcurrentSingleAttempt проверяет, что конкурентные
// первые вызовы делят одну попытку инициализации.
func TestBootstrap_ConcurrentSingleAttempt(t *testing.T) {
	b, blobs, _, _ := newTestBootstrapper(t)
	ctx := context.Background()

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := b.Ensure(ctx); err != nil {
				t.Errorf("Ensure: %v", err)
			}
		}()
	}
	wg.Wait()

	blobs.mu.Lock()
	calls := blobs.ensureCalls
	blobs.mu.Unlock()
	if calls != 1 {
		t.Errorf("EnsureBucket вызван %d раз, ожидался 1", calls)
	}
}

// TestBootstrap_RetryAfterFailure проверяет, что неудачная попытка
// не фиксирует успех и повторяется на следующем запросе.
func TestBootstrap_RetryAfterFailure(t *testing.T) {
	b, blobs, _, _ := newTestBootstrapper(t)
	ctx := context.Background()

	blobs.ensureErr = errors.New("S3 недоступен")
	if err := b.Ensure(ctx); err == nil {
		t.Fatal("Ensure при недоступном S3 вернул nil")
	}
	if b.Initialized() {
		t.Fatal("Initialized() == true после неудачной попытки")
	}

	// Хранилище восстановилось — следующий запрос инициализирует
	blobs.mu.Lock()
	blobs.ensureErr = nil
	blobs.mu.Unlock()
	if err := b.Ensure(ctx); err != nil {
		t.Fatalf("повторный Ensure: %v", err)
	}
	if !b.Initialized() {
		t.Fatal("Initialized() == false после успешного повтора")
	}
}

// TestBootstrap_EnsureIdempotent проверяет, что повторные Ensure
// после успеха не выполняют работу заново.
func TestBootstrap_EnsureIdempotent(t *testing.T) {
	b, blobs, _, _ := newTestBootstrapper(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := b.Ensure(ctx); err != nil {
			t.Fatalf("Ensure #%d: %v", i, err)
		}
	}

	blobs.mu.Lock()
	calls := blobs.ensureCalls
	blobs.mu.Unlock()
	if calls != 1 {
		t.Errorf("EnsureBucket вызван %d раз, ожидался 1", calls)
	}
}
