// Пакет service — бизнес-логика filedrop: реестр файлов, категории,
// парольные шлюзы и ленивый bootstrap хранилищ.
package service

import "errors"

// Ошибки сервисного слоя. HTTP-граница отображает их в коды ответов
// (ValidationError → 400, Unauthorized → 401, NotFound → 404,
// Duplicate → 400, StorageUnavailable → 500).
var (
	// ErrValidation — отсутствует или пусто обязательное поле.
	ErrValidation = errors.New("некорректные входные данные")
	// ErrUnauthorized — неверный пароль.
	ErrUnauthorized = errors.New("неверный пароль")
	// ErrNotFound — запись с указанным id не существует.
	ErrNotFound = errors.New("запись не найдена")
	// ErrDuplicate — категория с таким именем уже существует.
	ErrDuplicate = errors.New("категория уже существует")
	// ErrTooLarge — размер файла превышает лимит.
	ErrTooLarge = errors.New("файл превышает максимальный размер")
	// ErrStorageUnavailable — blob или KV хранилище недоступно.
	ErrStorageUnavailable = errors.New("хранилище недоступно")
)
