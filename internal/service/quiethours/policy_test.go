package quiethours

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInWindow_WrapAroundMidnight(t *testing.T) {
	// Окно 22-8 переходит через полночь
	tests := []struct {
		hour int
		want bool
	}{
		{23, true},
		{0, true},
		{7, true},
		{22, true},
		{8, false},
		{9, false},
		{21, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, InWindow(tt.hour, 22, 8), "hour %d", tt.hour)
	}
}

func TestInWindow_SameDay(t *testing.T) {
	tests := []struct {
		hour int
		want bool
	}{
		{9, true},
		{16, true},
		{8, false},
		{17, false},
		{23, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, InWindow(tt.hour, 9, 17), "hour %d", tt.hour)
	}
}

func TestAdjust_Disabled(t *testing.T) {
	date := time.Date(2025, 3, 10, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, date, Adjust(date, false, 22, 8))
}

func TestAdjust_OutsideWindow(t *testing.T) {
	date := time.Date(2025, 3, 10, 12, 15, 0, 0, time.UTC)
	assert.Equal(t, date, Adjust(date, true, 22, 8))
}

func TestAdjust_InsideWindow(t *testing.T) {
	// Внутри окна 22-8: перенос на 9:00 (конец окна + 1 час) того же дня
	date := time.Date(2025, 3, 10, 23, 30, 45, 0, time.UTC)
	adjusted := Adjust(date, true, 22, 8)

	assert.Equal(t, time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC), adjusted)
}

func TestAdjust_EndHour23WrapsToMidnight(t *testing.T) {
	date := time.Date(2025, 3, 10, 22, 0, 0, 0, time.UTC)
	adjusted := Adjust(date, true, 20, 23)

	assert.Equal(t, 0, adjusted.Hour())
	assert.Equal(t, 10, adjusted.Day())
}

func TestContains(t *testing.T) {
	inWindow := time.Date(2025, 3, 10, 23, 0, 0, 0, time.UTC)
	outside := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	assert.True(t, Contains(inWindow, true, 22, 8))
	assert.False(t, Contains(outside, true, 22, 8))
	assert.False(t, Contains(inWindow, false, 22, 8))
}
