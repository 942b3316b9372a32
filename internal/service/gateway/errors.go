package gateway

import "errors"

var (
	// ErrNotificationsDisabled возвращается, когда уведомления выключены настройками
	ErrNotificationsDisabled = errors.New("service.gateway: notifications are disabled")

	// ErrPermissionDenied возвращается, когда разрешение на уведомления не выдано
	ErrPermissionDenied = errors.New("service.gateway: notification permission not granted")

	// ErrSchedulingFailed возвращается, когда внешний сервис доставки отклонил запрос
	ErrSchedulingFailed = errors.New("service.gateway: failed to schedule notification")
)
