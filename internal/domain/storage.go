package domain

// DeviceStorageInfo представляет срез данных о заполненности хранилища
// устройства, полученный от подсистемы измерения фототеки
type DeviceStorageInfo struct {
	TotalCapacity       int64 `json:"total_capacity"`
	AvailableCapacity   int64 `json:"available_capacity"`
	PhotosUsedCapacity  int64 `json:"photos_used_capacity"`
	ReclaimableCapacity int64 `json:"reclaimable_capacity"`
}

// UsedCapacity возвращает занятый объём хранилища
func (s *DeviceStorageInfo) UsedCapacity() int64 {
	return s.TotalCapacity - s.AvailableCapacity
}

// UsagePercentage возвращает долю занятого хранилища в диапазоне [0, 1]
func (s *DeviceStorageInfo) UsagePercentage() float64 {
	if s.TotalCapacity <= 0 {
		return 0
	}
	return float64(s.UsedCapacity()) / float64(s.TotalCapacity)
}
