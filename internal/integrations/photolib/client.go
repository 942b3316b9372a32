package photolib

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/domain"
)

// Client клиент для работы с сервисом фототеки
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient создает новый экземпляр клиента фототеки
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// GetDeviceStorageInfo получает актуальные данные об использовании хранилища устройства.
// Используется при проверке порога заполнения перед планированием предупреждения
func (c *Client) GetDeviceStorageInfo(ctx context.Context) (*domain.DeviceStorageInfo, error) {
	url := fmt.Sprintf("%s/api/v1/storage", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrStorageUnavailable, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusServiceUnavailable:
		return nil, ErrStorageUnavailable
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	// Парсим ответ
	var payload StorageResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	if payload.TotalCapacity <= 0 {
		return nil, fmt.Errorf("%w: non-positive total capacity %d", ErrInvalidResponse, payload.TotalCapacity)
	}

	return &domain.DeviceStorageInfo{
		TotalCapacity:       payload.TotalCapacity,
		AvailableCapacity:   payload.AvailableCapacity,
		PhotosUsedCapacity:  payload.PhotosUsedCapacity,
		ReclaimableCapacity: payload.ReclaimableCapacity,
	}, nil
}
