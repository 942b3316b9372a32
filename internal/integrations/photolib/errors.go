package photolib

import "errors"

var (
	// ErrStorageUnavailable возвращается, когда сервис не смог отдать данные о хранилище
	ErrStorageUnavailable = errors.New("photolib client: storage info unavailable")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("photolib client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("photolib client: invalid response")
)
