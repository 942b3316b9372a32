package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/service/gateway"
	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/service/quiethours"
	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/service/trashwarn"
)

// Poller периодический обработчик фоновых проверок: добор просроченных
// доставок, заполненность хранилища, актуализация предупреждения об
// истечении корзины и очистка окончательно истёкших элементов. Сами
// планировщики опрос не ведут, проверки запускаются только отсюда или
// по HTTP.
type Poller struct {
	sweeper  DueSweeper
	storage  StorageChecker
	trash    TrashWarner
	purger   TrashPurger
	logger   Logger
	interval time.Duration
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// NewPoller создает новый экземпляр обработчика фоновых проверок
func NewPoller(sweeper DueSweeper, storage StorageChecker, trash TrashWarner, purger TrashPurger, logger Logger, interval time.Duration) *Poller {
	ctx, cancel := context.WithCancel(context.Background())

	return &Poller{
		sweeper:  sweeper,
		storage:  storage,
		trash:    trash,
		purger:   purger,
		logger:   logger,
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start запускает обработчик в отдельной goroutine
func (p *Poller) Start() {
	p.logger.Info("Starting background check poller (interval: %s)", p.interval)

	p.wg.Add(1)
	go p.run()
}

// Stop останавливает обработчик
func (p *Poller) Stop() {
	p.logger.Info("Stopping background check poller")
	p.cancel()
	p.wg.Wait()
	p.logger.Info("Background check poller stopped")
}

// run основной цикл фоновых проверок
func (p *Poller) run() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	// Первый запуск сразу (не ждём первого тика)
	p.runChecks()

	for {
		select {
		case <-ticker.C:
			p.runChecks()
		case <-p.ctx.Done():
			return
		}
	}
}

// runChecks выполняет один цикл фоновых проверок
func (p *Poller) runChecks() {
	ctx, cancel := context.WithTimeout(p.ctx, 2*time.Minute)
	defer cancel()

	p.sweepOverdue(ctx)
	p.checkStorage(ctx)
	p.refreshTrashWarning(ctx)
	p.purgeTrash(ctx)
}

// sweepOverdue добирает просроченные запросы без живой задачи доставки
func (p *Poller) sweepOverdue(ctx context.Context) {
	delivered, err := p.sweeper.SweepOverdue(ctx)
	if err != nil {
		p.logger.Error("Overdue sweep failed: %v", err)
		return
	}

	if delivered > 0 {
		p.logger.Info("Swept %d overdue notification(s)", delivered)
	}
}

// checkStorage проверяет заполненность хранилища
func (p *Poller) checkStorage(ctx context.Context) {
	scheduled, err := p.storage.CheckAndScheduleIfNeeded(ctx)
	if err != nil {
		if isPreconditionError(err) {
			p.logger.Info("Storage check skipped: %v", err)
			return
		}
		p.logger.Error("Storage check failed: %v", err)
		return
	}

	if scheduled {
		p.logger.Info("Storage check scheduled a capacity alert")
	}
}

// refreshTrashWarning актуализирует предупреждение об истечении корзины
func (p *Poller) refreshTrashWarning(ctx context.Context) {
	err := p.trash.ScheduleExpirationWarning(ctx)
	if err == nil {
		return
	}

	if errors.Is(err, trashwarn.ErrTrashEmpty) || errors.Is(err, trashwarn.ErrNoExpiringItems) || isPreconditionError(err) {
		return
	}

	p.logger.Error("Trash warning refresh failed: %v", err)
}

// purgeTrash удаляет окончательно истёкшие элементы корзины
func (p *Poller) purgeTrash(ctx context.Context) {
	purged, err := p.purger.PurgeExpired(ctx, time.Now())
	if err != nil {
		p.logger.Error("Trash purge failed: %v", err)
		return
	}

	if purged > 0 {
		p.logger.Info("Purged %d expired trash item(s)", purged)
	}
}

// isPreconditionError отличает штатный отказ предусловий от реальной ошибки
func isPreconditionError(err error) bool {
	return errors.Is(err, gateway.ErrNotificationsDisabled) ||
		errors.Is(err, gateway.ErrPermissionDenied) ||
		errors.Is(err, quiethours.ErrQuietHoursActive)
}
