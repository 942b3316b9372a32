package domain

import "time"

// SchedulerState представляет общее состояние планировщика одной категории.
// Каждый планировщик встраивает эту структуру и дополняет её своими полями.
// Мутируется только методами владеющего планировщика.
type SchedulerState struct {
	IsScheduled  bool       `json:"is_scheduled"`
	NextFireDate *time.Time `json:"next_fire_date,omitempty"`
	LastError    error      `json:"-"`
}

// MarkScheduled фиксирует успешное планирование и сбрасывает последнюю ошибку
func (s *SchedulerState) MarkScheduled(fireAt time.Time) {
	s.IsScheduled = true
	s.NextFireDate = &fireAt
	s.LastError = nil
}

// MarkFailed фиксирует ошибку; состояние откатывается к "не запланировано",
// чтобы не остаться в неоднозначном scheduled-but-failed состоянии
func (s *SchedulerState) MarkFailed(err error) {
	s.IsScheduled = false
	s.NextFireDate = nil
	s.LastError = err
}

// Reset возвращает состояние к исходным значениям
func (s *SchedulerState) Reset() {
	s.IsScheduled = false
	s.NextFireDate = nil
	s.LastError = nil
}
