package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics содержит Prometheus-коллекторы движка уведомлений
type Metrics struct {
	// NotificationsScheduled счётчик успешно запланированных уведомлений по категориям
	NotificationsScheduled *prometheus.CounterVec

	// NotificationsCancelled счётчик отменённых pending-запросов по категориям
	NotificationsCancelled *prometheus.CounterVec

	// NotificationsDelivered счётчик доставленных уведомлений по категориям
	NotificationsDelivered *prometheus.CounterVec

	// NotificationsFailed счётчик ошибок планирования/доставки по категориям
	NotificationsFailed *prometheus.CounterVec

	// HTTPRequestDuration гистограмма длительности HTTP-запросов
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsTotal счётчик HTTP-запросов
	HTTPRequestsTotal *prometheus.CounterVec
}

// New создает и регистрирует коллекторы в default registry
func New(serviceName string) *Metrics {
	labels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		NotificationsScheduled: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "notifications_scheduled_total",
			Help:        "Total number of notifications scheduled",
			ConstLabels: labels,
		}, []string{"category"}),

		NotificationsCancelled: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "notifications_cancelled_total",
			Help:        "Total number of pending notifications cancelled",
			ConstLabels: labels,
		}, []string{"category"}),

		NotificationsDelivered: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "notifications_delivered_total",
			Help:        "Total number of notifications delivered",
			ConstLabels: labels,
		}, []string{"category"}),

		NotificationsFailed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "notifications_failed_total",
			Help:        "Total number of notification scheduling or delivery failures",
			ConstLabels: labels,
		}, []string{"category", "reason"}),

		HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),

		HTTPRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: labels,
		}, []string{"method", "path", "status"}),
	}
}
