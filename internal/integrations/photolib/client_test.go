package photolib

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDeviceStorageInfo_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/storage", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"total_capacity": 128000000000,
			"available_capacity": 6400000000,
			"photos_used_capacity": 80000000000,
			"reclaimable_capacity": 12000000000
		}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)

	info, err := client.GetDeviceStorageInfo(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(128000000000), info.TotalCapacity)
	assert.Equal(t, int64(6400000000), info.AvailableCapacity)
	assert.InDelta(t, 0.95, info.UsagePercentage(), 0.001)
}

func TestGetDeviceStorageInfo_Unavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)

	_, err := client.GetDeviceStorageInfo(context.Background())

	assert.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestGetDeviceStorageInfo_InvalidPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"total_capacity": 0}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)

	_, err := client.GetDeviceStorageInfo(context.Background())

	assert.ErrorIs(t, err, ErrInvalidResponse)
}
