package photolib

// StorageResponse модель ответа фототеки с данными об использовании хранилища
type StorageResponse struct {
	TotalCapacity       int64 `json:"total_capacity"`
	AvailableCapacity   int64 `json:"available_capacity"`
	PhotosUsedCapacity  int64 `json:"photos_used_capacity"`
	ReclaimableCapacity int64 `json:"reclaimable_capacity"`
}

// ErrorResponse модель ошибки от сервиса фототеки
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
