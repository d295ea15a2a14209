// credentials.go — парольный шлюз filedrop.
// Два независимых общих секрета: пароль на скачивание и пароль
// администратора. Хранятся в KV открытым текстом и сравниваются
// прямым равенством строк — известная уязвимость, сохранена для
// поведенческой совместимости. Интерфейс Verifier — точка замены
// на constant-time или хэшированное сравнение.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bigkaa/filedrop/internal/kv"
)

// Role — роль, которую защищает общий секрет.
type Role string

const (
	// RoleDownload — доступ к списку одобренных файлов.
	RoleDownload Role = "download"
	// RoleAdmin — доступ к админ-панели.
	RoleAdmin Role = "admin"
)

// passwordKey возвращает KV-ключ секрета роли.
func passwordKey(role Role) string {
	return fmt.Sprintf("config:%s-password", role)
}

// Verifier — проверка пароля для роли.
type Verifier interface {
	// Verify возвращает true, если password совпадает с секретом роли.
	// Ошибка возвращается только при недоступности хранилища.
	Verify(ctx context.Context, password string, role Role) (bool, error)
}

// CredentialService — управление общими секретами поверх KV.
type CredentialService struct {
	store  kv.Store
	logger *slog.Logger
}

// NewCredentialService создаёт парольный шлюз.
func NewCredentialService(store kv.Store, logger *slog.Logger) *CredentialService {
	return &CredentialService{
		store:  store,
		logger: logger.With(slog.String("component", "credential_service")),
	}
}

// Verify сравнивает пароль с секретом роли прямым равенством строк.
func (s *CredentialService) Verify(ctx context.Context, password string, role Role) (bool, error) {
	stored, err := s.store.Get(ctx, passwordKey(role))
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			// Секрет ещё не засеян — пароль не может совпасть
			passwordChecksTotal.WithLabelValues(string(role), "fail").Inc()
			return false, nil
		}
		return false, fmt.Errorf("%w: чтение секрета роли %s: %w", ErrStorageUnavailable, role, err)
	}

	ok := password == stored
	result := "fail"
	if ok {
		result = "success"
	}
	passwordChecksTotal.WithLabelValues(string(role), result).Inc()
	return ok, nil
}

// UpdatePasswords обновляет секреты. Пустое значение означает
// "оставить без изменений" — оба поля опциональны и независимы.
func (s *CredentialService) UpdatePasswords(ctx context.Context, downloadPassword, adminPassword string) error {
	if downloadPassword != "" {
		if err := s.store.Set(ctx, passwordKey(RoleDownload), downloadPassword); err != nil {
			return fmt.Errorf("%w: запись секрета download: %w", ErrStorageUnavailable, err)
		}
		s.logger.Info("Пароль на скачивание обновлён")
	}
	if adminPassword != "" {
		if err := s.store.Set(ctx, passwordKey(RoleAdmin), adminPassword); err != nil {
			return fmt.Errorf("%w: запись секрета admin: %w", ErrStorageUnavailable, err)
		}
		s.logger.Info("Пароль администратора обновлён")
	}
	return nil
}

// seedPassword записывает секрет роли, только если он ещё не существует.
// Используется bootstrap'ом при первом запуске.
func (s *CredentialService) seedPassword(ctx context.Context, role Role, defaultValue string) error {
	_, err := s.store.Get(ctx, passwordKey(role))
	if err == nil {
		return nil
	}
	if !errors.Is(err, kv.ErrNotFound) {
		return fmt.Errorf("чтение секрета роли %s: %w", role, err)
	}
	if setErr := s.store.Set(ctx, passwordKey(role), defaultValue); setErr != nil {
		return fmt.Errorf("засев секрета роли %s: %w", role, setErr)
	}
	s.logger.Info("Секрет роли засеян значением по умолчанию", slog.String("role", string(role)))
	return nil
}

// Проверка на этапе компиляции
var _ Verifier = (*CredentialService)(nil)
