// registry.go — реестр файлов: жизненный цикл записи от загрузки
// до удаления.
//
// Порядок записи при загрузке фиксирован: сначала blob, потом KV.
// Ошибка blob прерывает операцию до создания записи (никаких висячих
// метаданных); обратная ошибка (KV после успешного blob) оставляет
// осиротевший объект — принято, не реконсилируется.
//
// Конкурентные мутации одной записи разрешаются last-write-wins
// семантикой KV, без блокировок и версионирования.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/bigkaa/filedrop/internal/blob"
	"github.com/bigkaa/filedrop/internal/domain/model"
	"github.com/bigkaa/filedrop/internal/kv"
)

// UploadParams — параметры загрузки файла.
type UploadParams struct {
	// Title — заголовок (обязательно, непустой)
	Title string
	// Category — категория (обязательно, непустая)
	Category string
	// Description — описание (опционально)
	Description string
	// FileName — оригинальное имя файла (обязательно)
	FileName string
	// FileType — MIME-тип из multipart part
	FileType string
	// FileSize — размер файла в байтах
	FileSize int64
	// Content — поток содержимого файла
	Content io.Reader
}

// MetadataUpdate — частичное обновление метаданных.
// nil-поле означает "оставить как есть". Для Description пустая
// строка — допустимая перезапись; для Title и Category пустое
// значение также означает "оставить" (семантика исходного API).
type MetadataUpdate struct {
	Title       *string
	Category    *string
	Description *string
}

// RegistryService — реестр файлов поверх KV и blob хранилищ.
type RegistryService struct {
	store    kv.Store
	blobs    blob.Store
	verifier Verifier
	urlCache *URLCache
	logger   *slog.Logger

	// maxFileSize — защитный лимит размера файла в байтах
	maxFileSize int64
	// signTTL — срок действия подписанных ссылок
	signTTL time.Duration

	// Монотонный millisecond-счётчик для генерации id:
	// два вызова в одну миллисекунду получают millis и millis+1.
	// Коллизии между процессами теоретически возможны и приняты.
	mu         sync.Mutex
	lastMillis int64
}

// RegistryOptions — параметры реестра.
type RegistryOptions struct {
	MaxFileSize int64
	SignedTTL   time.Duration
}

// NewRegistryService создаёт реестр файлов.
func NewRegistryService(
	store kv.Store,
	blobs blob.Store,
	verifier Verifier,
	urlCache *URLCache,
	opts RegistryOptions,
	logger *slog.Logger,
) *RegistryService {
	return &RegistryService{
		store:       store,
		blobs:       blobs,
		verifier:    verifier,
		urlCache:    urlCache,
		logger:      logger.With(slog.String("component", "registry_service")),
		maxFileSize: opts.MaxFileSize,
		signTTL:     opts.SignedTTL,
	}
}

// nextMillis возвращает строго возрастающий millisecond-таймштамп.
func (s *RegistryService) nextMillis() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	millis := time.Now().UnixMilli()
	if millis <= s.lastMillis {
		millis = s.lastMillis + 1
	}
	s.lastMillis = millis
	return millis
}

// Upload загружает файл: запись в blob store, затем создание
// FileRecord со статусом pending. Возвращает id новой записи.
func (s *RegistryService) Upload(ctx context.Context, params UploadParams) (string, error) {
	if params.Title == "" || params.Category == "" || params.FileName == "" {
		uploadsTotal.WithLabelValues("validation_error").Inc()
		return "", fmt.Errorf("%w: обязательны поля title, category и file", ErrValidation)
	}
	if s.maxFileSize > 0 && params.FileSize > s.maxFileSize {
		uploadsTotal.WithLabelValues("too_large").Inc()
		return "", fmt.Errorf("%w: %d байт при максимуме %d байт",
			ErrTooLarge, params.FileSize, s.maxFileSize)
	}

	millis := s.nextMillis()
	storagePath := model.StorageKey(params.Category, millis, params.FileName)

	contentType := params.FileType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	// 1. Запись содержимого. Ошибка здесь прерывает операцию —
	// запись в KV не создаётся.
	if err := s.blobs.Put(ctx, storagePath, params.Content, contentType); err != nil {
		uploadsTotal.WithLabelValues("storage_error").Inc()
		s.logger.Error("Ошибка записи содержимого в blob store",
			slog.String("storage_path", storagePath),
			slog.String("error", err.Error()),
		)
		return "", fmt.Errorf("%w: запись содержимого: %w", ErrStorageUnavailable, err)
	}

	// 2. Создание записи реестра.
	record := &model.FileRecord{
		ID:          model.FileID(millis),
		Title:       params.Title,
		Category:    params.Category,
		Description: params.Description,
		Status:      model.StatusPending,
		StoragePath: storagePath,
		FileName:    params.FileName,
		FileType:    contentType,
		FileSize:    params.FileSize,
		UploadedAt:  time.Now().UTC(),
	}

	if err := s.saveRecord(ctx, record); err != nil {
		// Содержимое уже записано: объект остаётся сиротой — принято.
		uploadsTotal.WithLabelValues("kv_error").Inc()
		s.logger.Error("Ошибка записи метаданных (объект остаётся в blob store)",
			slog.String("file_id", record.ID),
			slog.String("storage_path", storagePath),
			slog.String("error", err.Error()),
		)
		return "", err
	}

	uploadsTotal.WithLabelValues("success").Inc()
	s.logger.Info("Файл загружен, ожидает модерации",
		slog.String("file_id", record.ID),
		slog.String("filename", params.FileName),
		slog.String("category", params.Category),
		slog.Int64("size", params.FileSize),
	)
	return record.ID, nil
}

// Approve переводит запись в статус approved.
// Повторное одобрение — идемпотентная перезапись.
func (s *RegistryService) Approve(ctx context.Context, id string) error {
	return s.setStatus(ctx, id, model.StatusApproved)
}

// Reject переводит запись в статус rejected.
// Отклонение одобренной записи разрешено (повторная модерация).
func (s *RegistryService) Reject(ctx context.Context, id string) error {
	return s.setStatus(ctx, id, model.StatusRejected)
}

// setStatus перезаписывает статус записи, остальные поля не меняются.
func (s *RegistryService) setStatus(ctx context.Context, id string, status model.FileStatus) error {
	record, err := s.getRecord(ctx, id)
	if err != nil {
		operationsTotal.WithLabelValues(string(status), "error").Inc()
		return err
	}

	record.Status = status
	if err := s.saveRecord(ctx, record); err != nil {
		operationsTotal.WithLabelValues(string(status), "error").Inc()
		return err
	}

	operationsTotal.WithLabelValues(string(status), "success").Inc()
	s.logger.Info("Статус файла обновлён",
		slog.String("file_id", id),
		slog.String("status", string(status)),
	)
	return nil
}

// UpdateMetadata частично обновляет title/category/description.
func (s *RegistryService) UpdateMetadata(ctx context.Context, id string, update MetadataUpdate) error {
	record, err := s.getRecord(ctx, id)
	if err != nil {
		operationsTotal.WithLabelValues("update", "error").Inc()
		return err
	}

	if update.Title != nil && *update.Title != "" {
		record.Title = *update.Title
	}
	if update.Category != nil && *update.Category != "" {
		record.Category = *update.Category
	}
	if update.Description != nil {
		record.Description = *update.Description
	}

	if err := s.saveRecord(ctx, record); err != nil {
		operationsTotal.WithLabelValues("update", "error").Inc()
		return err
	}

	operationsTotal.WithLabelValues("update", "success").Inc()
	s.logger.Info("Метаданные файла обновлены", slog.String("file_id", id))
	return nil
}

// Delete удаляет запись и её содержимое. Удаление объекта — best
// effort: ошибка blob store логируется, но запись реестра удаляется
// в любом случае, чтобы листинги не показывали удалённые файлы.
func (s *RegistryService) Delete(ctx context.Context, id string) error {
	record, err := s.getRecord(ctx, id)
	if err != nil {
		operationsTotal.WithLabelValues("delete", "error").Inc()
		return err
	}

	if err := s.blobs.Remove(ctx, record.StoragePath); err != nil {
		s.logger.Warn("Ошибка удаления содержимого, запись реестра будет удалена",
			slog.String("file_id", id),
			slog.String("storage_path", record.StoragePath),
			slog.String("error", err.Error()),
		)
	}

	if err := s.store.Delete(ctx, id); err != nil {
		operationsTotal.WithLabelValues("delete", "error").Inc()
		return fmt.Errorf("%w: удаление записи %s: %w", ErrStorageUnavailable, id, err)
	}

	s.urlCache.Delete(record.StoragePath)

	operationsTotal.WithLabelValues("delete", "success").Inc()
	s.logger.Info("Файл удалён",
		slog.String("file_id", id),
		slog.String("storage_path", record.StoragePath),
	)
	return nil
}

// ListAll возвращает все записи, отсортированные по uploadedAt по
// убыванию (новые первыми); при равенстве времени — по id как
// стабильному вторичному ключу.
func (s *RegistryService) ListAll(ctx context.Context) ([]*model.FileRecord, error) {
	records, err := s.scanRecords(ctx)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(records, func(i, j int) bool {
		if !records[i].UploadedAt.Equal(records[j].UploadedAt) {
			return records[i].UploadedAt.After(records[j].UploadedAt)
		}
		return records[i].ID < records[j].ID
	})
	return records, nil
}

// ListApproved возвращает одобренные записи с подписанными ссылками.
// Требует верный пароль роли download; categoryFilter — точное
// совпадение, пустой фильтр пропускает все категории.
// Ошибка подписи отдельной записи не валит листинг: у такой записи
// downloadUrl == null.
func (s *RegistryService) ListApproved(ctx context.Context, password, categoryFilter string) ([]*model.FileWithURL, error) {
	ok, err := s.verifier.Verify(ctx, password, RoleDownload)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: роль download", ErrUnauthorized)
	}

	records, err := s.scanRecords(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]*model.FileWithURL, 0, len(records))
	for _, record := range records {
		if !record.IsApproved() {
			continue
		}
		if categoryFilter != "" && record.Category != categoryFilter {
			continue
		}

		item := &model.FileWithURL{FileRecord: *record}
		if url, signErr := s.signedURL(ctx, record.StoragePath); signErr != nil {
			// Деградация по-элементно: ссылка null, листинг продолжается
			s.logger.Warn("Ошибка подписи ссылки, запись отдаётся без downloadUrl",
				slog.String("file_id", record.ID),
				slog.String("error", signErr.Error()),
			)
		} else {
			item.DownloadURL = &url
		}
		result = append(result, item)
	}

	sort.SliceStable(result, func(i, j int) bool {
		if !result[i].UploadedAt.Equal(result[j].UploadedAt) {
			return result[i].UploadedAt.After(result[j].UploadedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// signedURL выдаёт подписанную ссылку, используя кэш.
func (s *RegistryService) signedURL(ctx context.Context, storagePath string) (string, error) {
	if url, ok := s.urlCache.Get(storagePath); ok {
		return url, nil
	}

	url, err := s.blobs.SignedURL(ctx, storagePath, s.signTTL)
	if err != nil {
		signedURLsTotal.WithLabelValues("error").Inc()
		return "", err
	}

	signedURLsTotal.WithLabelValues("success").Inc()
	s.urlCache.Set(storagePath, url)
	return url, nil
}

// getRecord читает и десериализует запись или возвращает ErrNotFound.
func (s *RegistryService) getRecord(ctx context.Context, id string) (*model.FileRecord, error) {
	raw, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil, fmt.Errorf("%w: файл %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: чтение записи %s: %w", ErrStorageUnavailable, id, err)
	}

	record := &model.FileRecord{}
	if err := json.Unmarshal([]byte(raw), record); err != nil {
		return nil, fmt.Errorf("десериализация записи %s: %w", id, err)
	}
	return record, nil
}

// saveRecord сериализует и записывает запись под её id.
func (s *RegistryService) saveRecord(ctx context.Context, record *model.FileRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("сериализация записи %s: %w", record.ID, err)
	}
	if err := s.store.Set(ctx, record.ID, string(data)); err != nil {
		return fmt.Errorf("%w: запись %s: %w", ErrStorageUnavailable, record.ID, err)
	}
	return nil
}

// scanRecords читает все записи по префиксу file:.
// Повреждённые значения и записи с неизвестным статусом
// пропускаются с предупреждением.
func (s *RegistryService) scanRecords(ctx context.Context) ([]*model.FileRecord, error) {
	values, err := s.store.GetByPrefix(ctx, model.KeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("%w: скан записей: %w", ErrStorageUnavailable, err)
	}

	records := make([]*model.FileRecord, 0, len(values))
	for _, raw := range values {
		record := &model.FileRecord{}
		if err := json.Unmarshal([]byte(raw), record); err != nil {
			s.logger.Warn("Повреждённая запись пропущена при скане",
				slog.String("error", err.Error()),
			)
			continue
		}
		if !record.Status.Valid() {
			s.logger.Warn("Запись с неизвестным статусом пропущена при скане",
				slog.String("file_id", record.ID),
				slog.String("status", string(record.Status)),
			)
			continue
		}
		records = append(records, record)
	}
	return records, nil
}
