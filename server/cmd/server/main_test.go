package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maynagashev/colectorpro/server/internal/handlers"
	"github.com/maynagashev/colectorpro/server/internal/repository"
	"github.com/maynagashev/colectorpro/server/internal/storage"
)

func TestSetupRouter(t *testing.T) {
	r := setupRouter(handlers.NewCarHandler(nil), 1024)
	require.NotNil(t, r)

	assert.True(t, hasRoute(r, http.MethodGet, "/ping"))
	assert.True(t, hasRoute(r, http.MethodGet, "/metrics"))
	assert.True(t, hasRoute(r, http.MethodGet, "/api/cars/"))
	assert.True(t, hasRoute(r, http.MethodPost, "/api/cars/"))
	assert.True(t, hasRoute(r, http.MethodPut, "/api/cars/{id}"))
	assert.True(t, hasRoute(r, http.MethodDelete, "/api/cars/{id}"))
}

func TestSetupRouter_CORS(t *testing.T) {
	r := setupRouter(handlers.NewCarHandler(nil), 1024)

	req := httptest.NewRequest(http.MethodOptions, "/api/cars", nil)
	req.Header.Set("Origin", "http://192.168.0.5:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rr.Header().Get("Access-Control-Allow-Methods"), http.MethodPut)
}

// Вспомогательная функция для проверки наличия маршрута.
func hasRoute(r chi.Router, method, pattern string) bool {
	found := false
	// Ошибка используется только для прерывания обхода
	_ = chi.Walk(r, func(m, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		if m == method && route == pattern {
			found = true
			return errors.New("found")
		}
		return nil
	})
	return found
}

func TestSetupDependencies(t *testing.T) {
	originalNewDB := newDB
	originalNewMinio := newMinioClient
	t.Cleanup(func() {
		newDB = originalNewDB
		newMinioClient = originalNewMinio
	})

	t.Run("Ошибка: неподдерживаемый драйвер", func(t *testing.T) {
		newDB = originalNewDB
		_, err := setupDependencies(context.Background(), &config{DatabaseDriver: "mysql", DatabaseDSN: "x"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ошибка инициализации БД")
	})

	t.Run("Ошибка миграции", func(t *testing.T) {
		mockDB, mock, err := sqlmock.New()
		require.NoError(t, err)
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS cars").WillReturnError(errors.New("read-only"))
		mock.ExpectClose()
		newDB = func(_, _ string) (*sqlx.DB, error) { return sqlx.NewDb(mockDB, "sqlmock"), nil }

		_, err = setupDependencies(context.Background(), &config{DatabaseDriver: "sqlite", DatabaseDSN: "x"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ошибка миграции БД")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Ошибка MinIO", func(t *testing.T) {
		newDB = originalNewDB
		newMinioClient = func(context.Context, storage.MinioConfig) (storage.FileStorage, error) {
			return nil, errors.New("connection refused")
		}
		cfg := &config{
			DatabaseDriver: repository.DriverSQLite,
			DatabaseDSN:    filepath.Join(t.TempDir(), "cars.db"),
			Minio:          storage.MinioConfig{Endpoint: "localhost:9000", BucketName: "b"},
		}

		_, err := setupDependencies(context.Background(), cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ошибка инициализации клиента MinIO")
	})

	t.Run("Успешное выполнение на SQLite", func(t *testing.T) {
		newDB = originalNewDB
		cfg := &config{
			DatabaseDriver: repository.DriverSQLite,
			DatabaseDSN:    filepath.Join(t.TempDir(), "cars.db"),
		}

		deps, err := setupDependencies(context.Background(), cfg)
		require.NoError(t, err)
		t.Cleanup(func() { _ = deps.db.Close() })
		assert.NotNil(t, deps.carHandler)

		// Полный цикл через роутер
		r := setupRouter(deps.carHandler, 1<<20)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/cars",
			strings.NewReader(`{"id":"1","name":"Twin Mill","category":"Fantasy","imageUrl":"u","dateAdded":1}`)))
		require.Equal(t, http.StatusOK, rr.Code)

		rr = httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/cars", nil))
		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t,
			`{"data":[{"id":"1","name":"Twin Mill","category":"Fantasy","imageUrl":"u","images":["u"],"dateAdded":1}]}`,
			rr.Body.String())
		// Запись без имени отклоняется ограничением NOT NULL
		rr = httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/cars",
			strings.NewReader(`{"id":"x","imageUrl":"u","dateAdded":2}`)))
		require.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), `"error"`)

		rr = httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/cars", nil))
		require.Equal(t, http.StatusOK, rr.Code)
		assert.NotContains(t, rr.Body.String(), `"id":"x"`)
	})
}

func TestLanBanner(t *testing.T) {
	banner := lanBanner("192.168.0.10", "3001")
	assert.Contains(t, banner, "http://192.168.0.10:3001")
	assert.Contains(t, banner, "Порт: 3001")
}

func TestLocalExternalIP(t *testing.T) {
	ip := localExternalIP()
	if ip == "localhost" {
		return
	}
	parsed := net.ParseIP(ip)
	require.NotNil(t, parsed)
	assert.NotNil(t, parsed.To4())
	assert.False(t, parsed.IsLoopback())
}
