package notifier

import "errors"

var (
	// ErrStoreFailure возвращается при ошибке хранилища pending-запросов
	ErrStoreFailure = errors.New("service.notifier: pending store failure")

	// ErrPersistAuthorization возвращается, когда статус разрешения не удалось сохранить
	ErrPersistAuthorization = errors.New("service.notifier: failed to persist authorization status")
)
