package service

import (
	"context"
	"testing"
)

// newTestCredentials создаёт парольный шлюз поверх miniredis
// с засеянными значениями по умолчанию.
func newTestCredentials(t *testing.T) *CredentialService {
	t.Helper()
	svc := NewCredentialService(newTestKV(t), testLogger())
	ctx := context.Background()
	if err := svc.seedPassword(ctx, RoleDownload, "download123"); err != nil {
		t.Fatalf("засев download: %v", err)
	}
	if err := svc.seedPassword(ctx, RoleAdmin, "admin123"); err != nil {
		t.Fatalf("засев admin: %v", err)
	}
	return svc
}

// TestCredentials_Verify проверяет сравнение паролей по ролям.
func TestCredentials_Verify(t *testing.T) {
	svc := newTestCredentials(t)
	ctx := context.Background()

	cases := []struct {
		password string
		role     Role
		want     bool
	}{
		{"download123", RoleDownload, true},
		{"admin123", RoleAdmin, true},
		{"admin123", RoleDownload, false},
		{"download123", RoleAdmin, false},
		{"", RoleDownload, false},
		{"wrong", RoleAdmin, false},
	}
	for _, c := range cases {
		got, err := svc.Verify(ctx, c.password, c.role)
		if err != nil {
			t.Fatalf("Verify(%q, %s): %v", c.password, c.role, err)
		}
		if got != c.want {
			t.Errorf("Verify(%q, %s) = %v, ожидалось %v", c.password, c.role, got, c.want)
		}
	}
}

// TestCredentials_VerifyUnseeded проверяет, что до засева пароль
// не может совпасть (false без ошибки).
func TestCredentials_VerifyUnseeded(t *testing.T) {
	svc := NewCredentialService(newTestKV(t), testLogger())
	ok, err := svc.Verify(context.Background(), "anything", RoleAdmin)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if ok {
		t.Error("Verify до засева вернул true")
	}
}

// TestCredentials_UpdatePartial проверяет независимую ротацию:
// пустое поле оставляет секрет без изменений.
func TestCredentials_UpdatePartial(t *testing.T) {
	svc := newTestCredentials(t)
	ctx := context.Background()

	// Ротация только admin-пароля
	if err := svc.UpdatePasswords(ctx, "", "newadmin"); err != nil {
		t.Fatalf("UpdatePasswords: %v", err)
	}

	ok, _ := svc.Verify(ctx, "newadmin", RoleAdmin)
	if !ok {
		t.Error("новый admin-пароль не принят")
	}
	ok, _ = svc.Verify(ctx, "admin123", RoleAdmin)
	if ok {
		t.Error("старый admin-пароль всё ещё принят")
	}
	ok, _ = svc.Verify(ctx, "download123", RoleDownload)
	if !ok {
		t.Error("download-пароль изменился, хотя не передавался")
	}

	// Ротация обоих
	if err := svc.UpdatePasswords(ctx, "dl2", "ad2"); err != nil {
		t.Fatalf("UpdatePasswords (оба): %v", err)
	}
	if ok, _ := svc.Verify(ctx, "dl2", RoleDownload); !ok {
		t.Error("новый download-пароль не принят")
	}
	if ok, _ := svc.Verify(ctx, "ad2", RoleAdmin); !ok {
		t.Error("новый admin-пароль не принят")
	}
}

// TestCredentials_SeedIdempotent проверяет, что засев не
// перезаписывает существующий секрет.
func TestCredentials_SeedIdempotent(t *testing.T) {
	svc := newTestCredentials(t)
	ctx := context.Background()

	if err := svc.UpdatePasswords(ctx, "rotated", ""); err != nil {
		t.Fatalf("UpdatePasswords: %v", err)
	}
	if err := svc.seedPassword(ctx, RoleDownload, "download123"); err != nil {
		t.Fatalf("повторный засев: %v", err)
	}
	if ok, _ := svc.Verify(ctx, "rotated", RoleDownload); !ok {
		t.Error("повторный засев перезаписал ротированный секрет")
	}
}
