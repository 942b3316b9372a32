package ptr

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPtr(t *testing.T) {
	i := 42
	assert.Equal(t, &i, Ptr(42))

	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, now, *Ptr(now))
}

func TestPtrGet(t *testing.T) {
	assert.Equal(t, 42, PtrGet(Ptr(42)))
	assert.Equal(t, "", PtrGet[string](nil))
	assert.Equal(t, time.Time{}, PtrGet[time.Time](nil))
}
