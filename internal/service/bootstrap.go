// bootstrap.go — ленивая одноразовая инициализация хранилищ:
// создание bucket и засев паролей и списка категорий по умолчанию.
//
// Координация через singleflight: конкурентные первые запросы делят
// одну попытку (один победитель выполняет работу, остальные ждут её
// завершения). Флаг успеха выставляется только после полной
// инициализации, поэтому неудачная попытка повторяется на следующем
// запросе, а не "застревает" успехом, которого не было.
package service

import (
	"context"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/bigkaa/filedrop/internal/blob"
)

// BootstrapDefaults — значения, засеваемые при первом запуске.
type BootstrapDefaults struct {
	// DownloadPassword — пароль роли download по умолчанию
	DownloadPassword string
	// AdminPassword — пароль роли admin по умолчанию
	AdminPassword string
	// Categories — стартовый список категорий
	Categories []string
}

// Bootstrapper — одноразовая инициализация bucket и конфигурации.
type Bootstrapper struct {
	blobs       blob.Store
	credentials *CredentialService
	categories  *CategoryService
	defaults    BootstrapDefaults
	logger      *slog.Logger

	group       singleflight.Group
	initialized atomic.Bool
}

// NewBootstrapper создаёт инициализатор.
func NewBootstrapper(
	blobs blob.Store,
	credentials *CredentialService,
	categories *CategoryService,
	defaults BootstrapDefaults,
	logger *slog.Logger,
) *Bootstrapper {
	return &Bootstrapper{
		blobs:       blobs,
		credentials: credentials,
		categories:  categories,
		defaults:    defaults,
		logger:      logger.With(slog.String("component", "bootstrap")),
	}
}

// Ensure гарантирует, что инициализация выполнена. Быстрый путь —
// атомарный флаг; медленный — singleflight, объединяющий
// конкурентные попытки в одну.
func (b *Bootstrapper) Ensure(ctx context.Context) error {
	if b.initialized.Load() {
		return nil
	}

	_, err, _ := b.group.Do("bootstrap", func() (any, error) {
		// Перепроверка: другой вызов мог успеть завершиться
		if b.initialized.Load() {
			return nil, nil
		}
		if err := b.run(ctx); err != nil {
			bootstrapTotal.WithLabelValues("error").Inc()
			return nil, err
		}
		bootstrapTotal.WithLabelValues("success").Inc()
		b.initialized.Store(true)
		return nil, nil
	})
	return err
}

// Initialized сообщает, завершилась ли инициализация (для health).
func (b *Bootstrapper) Initialized() bool {
	return b.initialized.Load()
}

// run выполняет все шаги инициализации. Засев идемпотентен:
// существующие значения никогда не перезаписываются.
func (b *Bootstrapper) run(ctx context.Context) error {
	if err := b.blobs.EnsureBucket(ctx); err != nil {
		b.logger.Error("Ошибка создания bucket", slog.String("error", err.Error()))
		return err
	}

	if err := b.credentials.seedPassword(ctx, RoleDownload, b.defaults.DownloadPassword); err != nil {
		return err
	}
	if err := b.credentials.seedPassword(ctx, RoleAdmin, b.defaults.AdminPassword); err != nil {
		return err
	}
	if err := b.categories.seedCategories(ctx, b.defaults.Categories); err != nil {
		return err
	}

	b.logger.Info("Инициализация хранилищ завершена")
	return nil
}
