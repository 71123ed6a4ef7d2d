package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/maynagashev/colectorpro/models"
)

// RequestTimeout ограничивает каждый запрос к серверу коллекции.
const RequestTimeout = 5 * time.Second

// Ошибки клиента.
var (
	// ErrRequestFailed - сетевая ошибка, таймаут или статус, отличный от 2xx.
	ErrRequestFailed = errors.New("запрос к серверу не выполнен")
	// ErrTimeout дополнительно оборачивается при превышении RequestTimeout.
	ErrTimeout = errors.New("превышено время ожидания ответа сервера")
)

// Client определяет интерфейс для взаимодействия с сервером коллекции.
type Client interface {
	// List получает всю коллекцию.
	List(ctx context.Context) ([]models.Car, error)
	// Create сохраняет новую запись.
	Create(ctx context.Context, car models.Car) error
	// Update перезаписывает запись car.ID.
	Update(ctx context.Context, car models.Car) error
	// Delete удаляет запись.
	Delete(ctx context.Context, id string) error
	// SeedIfEmpty на сервере ничего не добавляет и равносилен List.
	SeedIfEmpty(ctx context.Context) ([]models.Car, error)
	// BaseURL возвращает адрес сервера без завершающего слэша.
	BaseURL() string
}

// httpClient реализует интерфейс Client по HTTP.
type httpClient struct {
	baseURL    string       // Базовый URL сервера, например "http://192.168.0.10:3001"
	httpClient *http.Client // HTTP клиент для выполнения запросов
	timeout    time.Duration
}

// NewHTTPClient создает новый экземпляр API клиента.
func NewHTTPClient(baseURL string) Client {
	return &httpClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		timeout:    RequestTimeout,
	}
}

func (c *httpClient) BaseURL() string {
	return c.baseURL
}

// List выполняет GET /api/cars. Ответ без поля data считается пустой коллекцией.
func (c *httpClient) List(ctx context.Context) ([]models.Car, error) {
	var resp models.ListResponse
	if err := c.do(ctx, http.MethodGet, "/api/cars", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return []models.Car{}, nil
	}
	return resp.Data, nil
}

// Create выполняет POST /api/cars.
func (c *httpClient) Create(ctx context.Context, car models.Car) error {
	return c.do(ctx, http.MethodPost, "/api/cars", car, nil)
}

// Update выполняет PUT /api/cars/{id}.
func (c *httpClient) Update(ctx context.Context, car models.Car) error {
	return c.do(ctx, http.MethodPut, "/api/cars/"+url.PathEscape(car.ID), car, nil)
}

// Delete выполняет DELETE /api/cars/{id}.
func (c *httpClient) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/cars/"+url.PathEscape(id), nil, nil)
}

func (c *httpClient) SeedIfEmpty(ctx context.Context) ([]models.Car, error) {
	return c.List(ctx)
}

// do выполняет один запрос с таймаутом и декодирует ответ в out (если out != nil).
func (c *httpClient) do(ctx context.Context, method, path string, in, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body io.Reader
	if in != nil {
		jsonData, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("ошибка кодирования тела запроса: %w", err)
		}
		body = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%w: ошибка создания запроса %s %s: %w", ErrRequestFailed, method, path, err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			slog.Warn("Таймаут запроса к серверу", "method", method, "path", path)
			return fmt.Errorf("%w: %w", ErrRequestFailed, ErrTimeout)
		}
		slog.Warn("Ошибка запроса к серверу", "method", method, "path", path, "error", err)
		return fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %s %s: %s", ErrRequestFailed, method, path, statusDetail(resp))
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: %w", ErrRequestFailed, ErrTimeout)
		}
		return fmt.Errorf("%w: ошибка декодирования ответа: %w", ErrRequestFailed, err)
	}
	return nil
}

// statusDetail формирует описание неуспешного ответа, используя {"error": ...} если сервер его прислал.
func statusDetail(resp *http.Response) string {
	var errResp models.ErrorResponse
	const maxErrorBody = 4096
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxErrorBody)).Decode(&errResp); err == nil && errResp.Error != "" {
		return fmt.Sprintf("статус %d: %s", resp.StatusCode, errResp.Error)
	}
	return fmt.Sprintf("статус %d", resp.StatusCode)
}
