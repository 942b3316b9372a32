package storagealert

import "errors"

var (
	// ErrStorageInfoUnavailable возвращается, когда подсистема измерения
	// хранилища не смогла вернуть данные
	ErrStorageInfoUnavailable = errors.New("service.storagealert: storage info unavailable")
)
