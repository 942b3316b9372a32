package worker

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/domain"
	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/infra/storage/pending"
	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/pkg/metrics"
)

// Dispatcher диспетчер отложенной доставки уведомлений.
// Держит по одной gocron-задаче на идентификатор; повторная регистрация
// того же идентификатора замещает прежнюю задачу.
type Dispatcher struct {
	repo      PendingRepository
	delivery  DeliveryService
	logger    Logger
	metrics   *metrics.Metrics
	scheduler *gocron.Scheduler
	jobs      map[string]*gocron.Job // identifier -> job
	mu        sync.Mutex
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewDispatcher создает новый экземпляр диспетчера
func NewDispatcher(repo PendingRepository, delivery DeliveryService, m *metrics.Metrics, logger Logger) *Dispatcher {
	ctx, cancel := context.WithCancel(context.Background())

	return &Dispatcher{
		repo:      repo,
		delivery:  delivery,
		logger:    logger,
		metrics:   m,
		scheduler: gocron.NewScheduler(time.UTC),
		jobs:      make(map[string]*gocron.Job),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start запускает диспетчер
func (d *Dispatcher) Start() {
	d.logger.Info("Starting notification dispatcher")
	d.scheduler.StartAsync()
}

// Stop останавливает диспетчер
func (d *Dispatcher) Stop() {
	d.logger.Info("Stopping notification dispatcher")
	d.cancel()
	d.scheduler.Stop()
	d.logger.Info("Notification dispatcher stopped")
}

// Register планирует доставку запроса на его время срабатывания.
// Запрос с уже прошедшим временем доставляется при ближайшем запуске задачи.
func (d *Dispatcher) Register(request *domain.PendingRequest) {
	d.mu.Lock()
	defer d.mu.Unlock()

	// Замещаем прежнюю задачу с тем же идентификатором
	if job, exists := d.jobs[request.Identifier]; exists {
		d.scheduler.RemoveByReference(job)
		delete(d.jobs, request.Identifier)
	}

	fireAt := request.FireAt
	job, err := d.scheduler.Every(1).StartAt(fireAt).LimitRunsTo(1).Do(
		d.deliver,
		request.Identifier,
		fireAt,
	)
	if err != nil {
		d.logger.Error("Failed to schedule delivery job for %s: %v", request.Identifier, err)
		return
	}

	d.jobs[request.Identifier] = job
	d.logger.Info("Registered delivery of %s at %s", request.Identifier, fireAt.Format(time.RFC3339))
}

// Unregister отменяет запланированную доставку
func (d *Dispatcher) Unregister(identifier string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	job, exists := d.jobs[identifier]
	if !exists {
		return
	}

	d.scheduler.RemoveByReference(job)
	delete(d.jobs, identifier)
	d.logger.Info("Unregistered delivery of %s", identifier)
}

// UnregisterByPrefix отменяет запланированные доставки идентификаторов
// с указанным префиксом
func (d *Dispatcher) UnregisterByPrefix(prefix string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for identifier, job := range d.jobs {
		if !strings.HasPrefix(identifier, prefix) {
			continue
		}
		d.scheduler.RemoveByReference(job)
		delete(d.jobs, identifier)
	}
}

// UnregisterAll отменяет все запланированные доставки
func (d *Dispatcher) UnregisterAll() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for identifier, job := range d.jobs {
		d.scheduler.RemoveByReference(job)
		delete(d.jobs, identifier)
	}
	d.logger.Info("Unregistered all scheduled deliveries")
}

// JobCount возвращает количество зарегистрированных задач
func (d *Dispatcher) JobCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.jobs)
}

// deliver доставляет запрос. Вызывается gocron в момент срабатывания.
// Запрос перечитывается из БД: за время ожидания его могли отменить
// или заместить новым временем срабатывания.
func (d *Dispatcher) deliver(identifier string, scheduledFor time.Time) {
	defer d.removeJob(identifier)

	ctx, cancel := context.WithTimeout(d.ctx, 30*time.Second)
	defer cancel()

	request, err := d.repo.GetByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, pending.ErrRequestNotFound) {
			d.logger.Info("Delivery of %s skipped: request was cancelled", identifier)
			return
		}
		d.logger.Error("Failed to fetch request %s for delivery: %v", identifier, err)
		return
	}

	// Запрос заместили: доставкой займётся задача с новым временем.
	// Сравниваем с точностью TIMESTAMPTZ: БД хранит микросекунды, а время
	// регистрации могло иметь наносекундную точность
	if !request.FireAt.Truncate(time.Microsecond).Equal(scheduledFor.Truncate(time.Microsecond)) {
		d.logger.Info("Delivery of %s skipped: request was rescheduled to %s", identifier, request.FireAt.Format(time.RFC3339))
		return
	}

	if err := d.delivery.SendNotification(request); err != nil {
		d.logger.Error("Failed to deliver notification %s: %v", identifier, err)
		d.metrics.NotificationsFailed.WithLabelValues(string(request.Category), "delivery").Inc()
		return
	}

	if err := d.repo.DeleteByIdentifiers(ctx, []string{identifier}); err != nil {
		d.logger.Error("Failed to remove delivered request %s: %v", identifier, err)
	}

	d.metrics.NotificationsDelivered.WithLabelValues(string(request.Category)).Inc()
	d.logger.Info("Delivered notification %s", identifier)
}

// SweepOverdue доставляет просроченные запросы, оставшиеся без задачи:
// одноразовая задача расходуется и при неудачной доставке, а строка при
// этом остаётся в БД. Запросы с живой задачей пропускаются, их доставит
// сама задача. Возвращает число доставленных запросов.
func (d *Dispatcher) SweepOverdue(ctx context.Context) (int, error) {
	due, err := d.repo.ListDue(ctx, time.Now())
	if err != nil {
		return 0, err
	}

	delivered := 0
	for _, request := range due {
		if d.hasJob(request.Identifier) {
			continue
		}

		if err := d.delivery.SendNotification(request); err != nil {
			d.logger.Error("Failed to deliver overdue notification %s: %v", request.Identifier, err)
			d.metrics.NotificationsFailed.WithLabelValues(string(request.Category), "delivery").Inc()
			continue
		}

		if err := d.repo.DeleteByIdentifiers(ctx, []string{request.Identifier}); err != nil {
			d.logger.Error("Failed to remove delivered request %s: %v", request.Identifier, err)
		}

		d.metrics.NotificationsDelivered.WithLabelValues(string(request.Category)).Inc()
		d.logger.Info("Delivered overdue notification %s", request.Identifier)
		delivered++
	}
	return delivered, nil
}

// hasJob проверяет наличие зарегистрированной задачи доставки
func (d *Dispatcher) hasJob(identifier string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.jobs[identifier]
	return ok
}

// removeJob удаляет задачу из внутреннего реестра (не из gocron)
func (d *Dispatcher) removeJob(identifier string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.jobs, identifier)
}
