// Пакет model — доменные модели filedrop.
// FileRecord — единая структура метаданных загруженного файла,
// используется как in-memory представление и как формат записи в KV.
package model

import (
	"fmt"
	"time"
)

// FileStatus — статус файла в реестре.
type FileStatus string

const (
	// StatusPending — файл загружен, ожидает модерации
	StatusPending FileStatus = "pending"
	// StatusApproved — файл одобрен администратором, доступен для скачивания
	StatusApproved FileStatus = "approved"
	// StatusRejected — файл отклонён администратором
	StatusRejected FileStatus = "rejected"
)

// Valid проверяет, что статус — одно из допустимых значений.
func (s FileStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// KeyPrefix — префикс KV-ключей записей файлов.
const KeyPrefix = "file:"

// FileRecord — метаданные загруженного файла.
// JSON-имена полей соответствуют формату записей в KV:
// поле StoragePath сериализуется как "fileUrl" (исторический формат).
type FileRecord struct {
	// ID — уникальный идентификатор записи, формат "file:<millis>".
	// Генерируется при загрузке, неизменяемый.
	ID string `json:"id"`

	// Title — заголовок файла, задаётся пользователем при загрузке
	Title string `json:"title"`

	// Category — категория файла. Ссылается на запись в списке категорий,
	// но не проверяется как foreign key: удаление категории оставляет
	// устаревшую метку в записи.
	Category string `json:"category"`

	// Description — описание файла (может быть пустым)
	Description string `json:"description"`

	// Status — статус модерации (pending/approved/rejected)
	Status FileStatus `json:"status"`

	// StoragePath — ключ объекта в blob store.
	// Формат: <category>/<millis>-<fileName>. Неизменяемый.
	StoragePath string `json:"fileUrl"`

	// FileName — оригинальное имя файла при загрузке
	FileName string `json:"fileName"`

	// FileType — MIME-тип файла
	FileType string `json:"fileType"`

	// FileSize — размер файла в байтах
	FileSize int64 `json:"fileSize"`

	// UploadedAt — дата и время загрузки (UTC, RFC3339)
	UploadedAt time.Time `json:"uploadedAt"`
}

// IsApproved проверяет, что файл одобрен.
func (r *FileRecord) IsApproved() bool {
	return r.Status == StatusApproved
}

// FileID строит идентификатор записи из millisecond-таймштампа.
func FileID(millis int64) string {
	return fmt.Sprintf("%s%d", KeyPrefix, millis)
}

// StorageKey строит ключ объекта в blob store.
func StorageKey(category string, millis int64, fileName string) string {
	return fmt.Sprintf("%s/%d-%s", category, millis, fileName)
}

// FileWithURL — запись файла с приложенной подписанной ссылкой.
// DownloadURL == nil, если подпись для этой записи не удалась
// (листинг деградирует по-элементно, а не целиком).
type FileWithURL struct {
	FileRecord
	DownloadURL *string `json:"downloadUrl"`
}
