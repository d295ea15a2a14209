// categories.go — управление списком категорий.
// Список хранится одной KV-записью (JSON-массив строк), порядок
// значим и задаётся администратором. Read-modify-write цикл без
// cross-key транзакции: конкурентные записи теряют одну из них
// (last write wins) — документированное поведение при низкой
// конкуренции админских операций.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/bigkaa/filedrop/internal/kv"
)

// categoriesKey — KV-ключ списка категорий.
const categoriesKey = "categories"

// CategoryService — управление упорядоченным списком категорий.
type CategoryService struct {
	store  kv.Store
	logger *slog.Logger
}

// NewCategoryService создаёт сервис категорий.
func NewCategoryService(store kv.Store, logger *slog.Logger) *CategoryService {
	return &CategoryService{
		store:  store,
		logger: logger.With(slog.String("component", "category_service")),
	}
}

// List возвращает категории в сохранённом порядке.
// Отсутствующая запись — пустой список, не ошибка.
func (s *CategoryService) List(ctx context.Context) ([]string, error) {
	raw, err := s.store.Get(ctx, categoriesKey)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("%w: чтение списка категорий: %w", ErrStorageUnavailable, err)
	}

	var categories []string
	if err := json.Unmarshal([]byte(raw), &categories); err != nil {
		return nil, fmt.Errorf("десериализация списка категорий: %w", err)
	}
	return categories, nil
}

// Add добавляет категорию в конец списка.
// Пустое имя — ErrValidation, существующее (точное совпадение) — ErrDuplicate.
func (s *CategoryService) Add(ctx context.Context, name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: имя категории обязательно", ErrValidation)
	}

	categories, err := s.List(ctx)
	if err != nil {
		return err
	}
	if slices.Contains(categories, name) {
		return fmt.Errorf("%w: %q", ErrDuplicate, name)
	}

	categories = append(categories, name)
	if err := s.save(ctx, categories); err != nil {
		return err
	}

	s.logger.Info("Категория добавлена", slog.String("name", name))
	return nil
}

// Reorder заменяет весь сохранённый список последовательностью
// вызывающего. Сервер не проверяет, что новая последовательность —
// перестановка старой (доверяет админскому вызывающему), но
// отклоняет дубликаты: они сломали бы инвариант уникальности
// при следующем Add.
func (s *CategoryService) Reorder(ctx context.Context, newOrder []string) error {
	seen := make(map[string]struct{}, len(newOrder))
	for _, name := range newOrder {
		if _, dup := seen[name]; dup {
			return fmt.Errorf("%w: дубликат в новом порядке: %q", ErrValidation, name)
		}
		seen[name] = struct{}{}
	}

	if err := s.save(ctx, newOrder); err != nil {
		return err
	}

	s.logger.Info("Порядок категорий обновлён", slog.Int("count", len(newOrder)))
	return nil
}

// Delete удаляет первое точное совпадение имени из списка.
// Отсутствующее имя — no-op, не ошибка. Записи файлов с этой
// категорией не затрагиваются (устаревшая метка остаётся).
func (s *CategoryService) Delete(ctx context.Context, name string) error {
	categories, err := s.List(ctx)
	if err != nil {
		return err
	}

	idx := slices.Index(categories, name)
	if idx == -1 {
		return nil
	}

	categories = slices.Delete(categories, idx, idx+1)
	if err := s.save(ctx, categories); err != nil {
		return err
	}

	s.logger.Info("Категория удалена", slog.String("name", name))
	return nil
}

// seedCategories записывает список по умолчанию, только если запись
// ещё не существует. Используется bootstrap'ом при первом запуске.
func (s *CategoryService) seedCategories(ctx context.Context, defaults []string) error {
	_, err := s.store.Get(ctx, categoriesKey)
	if err == nil {
		return nil
	}
	if !errors.Is(err, kv.ErrNotFound) {
		return fmt.Errorf("чтение списка категорий: %w", err)
	}
	if saveErr := s.save(ctx, defaults); saveErr != nil {
		return saveErr
	}
	s.logger.Info("Список категорий засеян значениями по умолчанию",
		slog.Int("count", len(defaults)),
	)
	return nil
}

// save сериализует и записывает полный список.
func (s *CategoryService) save(ctx context.Context, categories []string) error {
	if categories == nil {
		categories = []string{}
	}
	data, err := json.Marshal(categories)
	if err != nil {
		return fmt.Errorf("сериализация списка категорий: %w", err)
	}
	if err := s.store.Set(ctx, categoriesKey, string(data)); err != nil {
		return fmt.Errorf("%w: запись списка категорий: %w", ErrStorageUnavailable, err)
	}
	return nil
}
