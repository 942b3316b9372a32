package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/api/handlers/add_trash_item"
	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/api/handlers/cancel_reminder"
	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/api/handlers/cancel_trash_warnings"
	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/api/handlers/check_storage"
	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/api/handlers/expiring_count"
	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/api/handlers/health"
	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/api/handlers/list_pending"
	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/api/handlers/remove_trash_item"
	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/api/handlers/reschedule_reminder"
	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/api/handlers/scan_completed"
	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/api/handlers/schedule_reminder"
	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/api/handlers/schedule_trash_warning"
	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/api/middleware"
	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/config"
	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/infra/settingsstore"
	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/infra/storage/pending"
	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/integrations/photolib"
	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/integrations/trashstore"
	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/service/gateway"
	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/service/notifier"
	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/service/reminder"
	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/service/scancomplete"
	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/service/storagealert"
	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/service/telegram"
	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/service/trashwarn"
	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/worker"
	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/pkg/logger"
	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/pkg/metrics"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting LightRoll notification engine...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики: коллекторы нужны диспетчеру и при
	// выключенном endpoint'е
	metricsCollector := metrics.New(cfg.Metrics.ServiceName)
	if cfg.Metrics.Enabled {
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем репозиторий pending-запросов
	pendingRepo := pending.NewRepository(db)

	// Инициализируем файловое хранилище настроек
	settingsStore := settingsstore.New(cfg.Settings.FilePath)
	if err := settingsStore.Load(); err != nil {
		log.Warn("Failed to load settings file, using defaults: %v", err)
	}
	log.Info("Settings store initialized (file=%s)", cfg.Settings.FilePath)

	// Инициализируем локальный индекс корзины
	trashStore, err := trashstore.Open(cfg.Trash.DBPath)
	if err != nil {
		log.Fatal("Failed to open trash store: %v", err)
	}
	defer trashStore.Close()
	log.Info("Trash store initialized (db=%s)", cfg.Trash.DBPath)

	// Создаём контекст с возможностью отмены для управления жизненным циклом горутин
	ctx, cancelCtx := context.WithCancel(context.Background())
	defer cancelCtx()

	// Инициализируем интеграцию с сервисом фототеки
	photoLibClient := photolib.NewClient(
		cfg.PhotoLib.URL,
		time.Duration(cfg.PhotoLib.Timeout)*time.Second,
	)
	log.Info("PhotoLib client initialized (url=%s)", cfg.PhotoLib.URL)

	// Инициализируем Telegram Bot API
	bot, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		log.Fatal("Failed to initialize Telegram Bot API: %v", err)
	}
	log.Info("Telegram Bot API initialized (@%s)", bot.Self.UserName)

	// Инициализируем транспорт доставки
	telegramSvc := telegram.NewService(bot, cfg.Telegram.ChatID, cfg.Telegram.AppURL)
	log.Info("Telegram delivery service initialized (chat=%d)", cfg.Telegram.ChatID)

	// Инициализируем диспетчер отложенной доставки
	dispatcher := worker.NewDispatcher(pendingRepo, telegramSvc, metricsCollector, log)

	// Инициализируем центр уведомлений и шлюз
	center := notifier.New(pendingRepo, settingsStore, telegramSvc, dispatcher, metricsCollector, log)
	gw := gateway.New(center, settingsStore, log)

	// Подхватываем сохранённый статус разрешения
	if _, err := gw.RefreshAuthorization(ctx); err != nil {
		log.Warn("Failed to refresh authorization status: %v", err)
	}
	log.Info("Notification gateway initialized (authorization: %s)", gw.AuthorizationStatus())

	// Инициализируем планировщики
	reminderScheduler := reminder.NewScheduler(gw, settingsStore, log, cfg.Notifications.ReminderFireHour)
	storageScheduler := storagealert.NewScheduler(gw, photoLibClient, settingsStore, log)
	scanNotifier := scancomplete.NewNotifier(gw, settingsStore, log, time.Duration(cfg.Notifications.ScanFireDelay)*time.Second)
	trashWarner := trashwarn.NewNotifier(gw, trashStore, settingsStore, log,
		cfg.Notifications.TrashWarningDays,
		time.Duration(cfg.Notifications.ImmediateDelay)*time.Second,
	)
	log.Info("Notification schedulers initialized")

	// КРИТИЧНО: Запускаем диспетчер ПЕРЕД восстановлением запросов
	dispatcher.Start()
	log.Info("Notification dispatcher started")

	// КРИТИЧНО: Восстанавливаем pending-запросы из БД при старте
	if restored, err := center.Restore(ctx); err != nil {
		log.Error("Failed to restore pending requests: %v", err)
	} else {
		log.Info("Restored %d pending request(s)", restored)
	}

	// Запускаем фоновые проверки
	poller := worker.NewPoller(dispatcher, storageScheduler, trashWarner, trashStore, log,
		time.Duration(cfg.Worker.PollInterval)*time.Second)
	poller.Start()
	log.Info("Background check poller started (interval=%ds)", cfg.Worker.PollInterval)

	// Инициализируем handlers
	healthHandler := health.NewHandler()
	scheduleReminderHandler := schedule_reminder.NewHandler(reminderScheduler, log)
	cancelReminderHandler := cancel_reminder.NewHandler(reminderScheduler, log)
	rescheduleReminderHandler := reschedule_reminder.NewHandler(reminderScheduler, log)
	checkStorageHandler := check_storage.NewHandler(storageScheduler, log)
	scanCompletedHandler := scan_completed.NewHandler(scanNotifier, log)
	addTrashItemHandler := add_trash_item.NewHandler(trashStore, trashWarner, log)
	removeTrashItemHandler := remove_trash_item.NewHandler(trashStore, trashWarner, log)
	scheduleTrashWarningHandler := schedule_trash_warning.NewHandler(trashWarner, log)
	cancelTrashWarningsHandler := cancel_trash_warnings.NewHandler(trashWarner, log)
	expiringCountHandler := expiring_count.NewHandler(trashWarner, log)
	listPendingHandler := list_pending.NewHandler(gw, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Публичные endpoints
	r.HandleFunc("/health", healthHandler.Handle).Methods(http.MethodGet)

	// Metrics endpoint (публичный)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API v1 endpoints
	api := r.PathPrefix("/api/v1").Subrouter()

	// Reminder endpoints
	api.HandleFunc("/reminder", scheduleReminderHandler.Handle).Methods(http.MethodPost)
	api.HandleFunc("/reminder", cancelReminderHandler.Handle).Methods(http.MethodDelete)
	api.HandleFunc("/reminder/reschedule", rescheduleReminderHandler.Handle).Methods(http.MethodPost)

	// Storage endpoints
	api.HandleFunc("/storage/check", checkStorageHandler.Handle).Methods(http.MethodPost)

	// Scan endpoints
	api.HandleFunc("/scan/completed", scanCompletedHandler.Handle).Methods(http.MethodPost)

	// Trash endpoints
	api.HandleFunc("/trash/items", addTrashItemHandler.Handle).Methods(http.MethodPost)
	api.HandleFunc("/trash/items/{id}", removeTrashItemHandler.Handle).Methods(http.MethodDelete)
	api.HandleFunc("/trash/warning", scheduleTrashWarningHandler.Handle).Methods(http.MethodPost)
	api.HandleFunc("/trash/warnings", cancelTrashWarningsHandler.Handle).Methods(http.MethodDelete)
	api.HandleFunc("/trash/expiring/count", expiringCountHandler.Handle).Methods(http.MethodGet)

	// Notifications endpoints
	api.HandleFunc("/notifications/pending", listPendingHandler.Handle).Methods(http.MethodGet)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Запускаем HTTP сервер
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// КРИТИЧНО: Останавливаем фоновые компоненты ПЕРЕД сервером
	poller.Stop()
	dispatcher.Stop()
	log.Info("Worker components stopped")

	// Graceful shutdown HTTP сервера
	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server exited")
}
