package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/maynagashev/colectorpro/models"
	"github.com/maynagashev/colectorpro/server/internal/handlers"
	"github.com/maynagashev/colectorpro/server/internal/middleware"
)

// MockCarService - мок для services.CarService.
type MockCarService struct {
	mock.Mock
}

func (m *MockCarService) List(ctx context.Context) ([]models.Car, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Car), args.Error(1) //nolint:errcheck // Допустимо для моков
}

func (m *MockCarService) Create(ctx context.Context, car models.Car) (models.Car, error) {
	args := m.Called(ctx, car)
	return args.Get(0).(models.Car), args.Error(1) //nolint:errcheck // Допустимо для моков
}

func (m *MockCarService) Update(ctx context.Context, id string, car models.Car) (models.Car, error) {
	args := m.Called(ctx, id, car)
	return args.Get(0).(models.Car), args.Error(1) //nolint:errcheck // Допустимо для моков
}

func (m *MockCarService) Delete(ctx context.Context, id string) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1) //nolint:errcheck // Допустимо для моков
}

// newRouter собирает маршруты так же, как сервер.
func newRouter(svc *MockCarService) http.Handler {
	h := handlers.NewCarHandler(svc)
	r := chi.NewRouter()
	r.Use(middleware.BodyLimit(1024))
	r.Get("/api/cars", h.List)
	r.Post("/api/cars", h.Create)
	r.Put("/api/cars/{id}", h.Update)
	r.Delete("/api/cars/{id}", h.Delete)
	return r
}

func doRequest(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp.Error
}

func TestCarHandler_List(t *testing.T) {
	cars := []models.Car{
		{ID: "2", Name: "Mustang GT", Category: models.CategoryMuscle, ImageURL: "u2", Images: []string{"u2"}, DateAdded: 20},
		{ID: "1", Name: "Twin Mill", Category: models.CategoryFantasy, ImageURL: "u1", Images: []string{"u1"}, DateAdded: 10},
	}

	tests := []struct {
		name           string
		mockCars       []models.Car
		mockErr        error
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "Успех",
			mockCars:       cars,
			expectedStatus: http.StatusOK,
			expectedBody: `{"data":[` +
				`{"id":"2","name":"Mustang GT","category":"Muscle","imageUrl":"u2","images":["u2"],"dateAdded":20},` +
				`{"id":"1","name":"Twin Mill","category":"Fantasy","imageUrl":"u1","images":["u1"],"dateAdded":10}]}`,
		},
		{
			name:           "Пустая коллекция",
			mockCars:       nil,
			expectedStatus: http.StatusOK,
			expectedBody:   `{"data":[]}`,
		},
		{
			name:           "Ошибка БД отдается как 400",
			mockErr:        errors.New("no such table: cars"),
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"no such table: cars"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockCarService)
			if tt.mockCars == nil {
				svc.On("List", mock.Anything).Return(nil, tt.mockErr)
			} else {
				svc.On("List", mock.Anything).Return(tt.mockCars, tt.mockErr)
			}

			rr := doRequest(newRouter(svc), http.MethodGet, "/api/cars", "")

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
			assert.JSONEq(t, tt.expectedBody, rr.Body.String())
			svc.AssertExpectations(t)
		})
	}
}

func TestCarHandler_Create(t *testing.T) {
	t.Run("Успех", func(t *testing.T) {
		svc := new(MockCarService)
		in := models.Car{ID: "9", Name: "Bone Shaker", Category: models.CategoryFantasy, ImageURL: "u", DateAdded: 5}
		saved := in
		saved.Images = []string{"u"}
		svc.On("Create", mock.Anything, in).Return(saved, nil).Once()

		rr := doRequest(newRouter(svc), http.MethodPost, "/api/cars",
			`{"id":"9","name":"Bone Shaker","category":"Fantasy","imageUrl":"u","dateAdded":5}`)

		assert.Equal(t, http.StatusOK, rr.Code)
		var resp models.MutationResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "Carro salvo com sucesso", resp.Message)
		require.NotNil(t, resp.Data)
		assert.Equal(t, saved, *resp.Data)
		assert.Nil(t, resp.Changes)
		svc.AssertExpectations(t)
	})

	t.Run("Некорректный JSON", func(t *testing.T) {
		svc := new(MockCarService)

		rr := doRequest(newRouter(svc), http.MethodPost, "/api/cars", `{"id":`)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.NotEmpty(t, decodeError(t, rr))
		svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Тело больше лимита", func(t *testing.T) {
		svc := new(MockCarService)
		big := `{"id":"1","name":"` + strings.Repeat("x", 2048) + `"}`

		rr := doRequest(newRouter(svc), http.MethodPost, "/api/cars", big)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Ошибка сервиса", func(t *testing.T) {
		svc := new(MockCarService)
		svc.On("Create", mock.Anything, mock.Anything).
			Return(models.Car{}, errors.New("UNIQUE constraint failed: cars.id"))

		rr := doRequest(newRouter(svc), http.MethodPost, "/api/cars", `{"id":"1","name":"A"}`)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "UNIQUE constraint failed: cars.id", decodeError(t, rr))
	})
}

func TestCarHandler_Update(t *testing.T) {
	t.Run("id берется из пути", func(t *testing.T) {
		svc := new(MockCarService)
		in := models.Car{Name: "Renamed", Images: []string{"a", "b"}, ImageURL: "a"}
		out := in
		out.ID = "abc"
		svc.On("Update", mock.Anything, "abc", in).Return(out, nil).Once()

		rr := doRequest(newRouter(svc), http.MethodPut, "/api/cars/abc",
			`{"name":"Renamed","imageUrl":"a","images":["a","b"]}`)

		assert.Equal(t, http.StatusOK, rr.Code)
		var resp models.MutationResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "Carro atualizado com sucesso", resp.Message)
		require.NotNil(t, resp.Data)
		assert.Equal(t, "abc", resp.Data.ID)
		svc.AssertExpectations(t)
	})

	t.Run("Некорректный JSON", func(t *testing.T) {
		svc := new(MockCarService)
		rr := doRequest(newRouter(svc), http.MethodPut, "/api/cars/abc", `not json`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		svc.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Ошибка сервиса", func(t *testing.T) {
		svc := new(MockCarService)
		svc.On("Update", mock.Anything, "abc", mock.Anything).Return(models.Car{}, errors.New("database is locked"))

		rr := doRequest(newRouter(svc), http.MethodPut, "/api/cars/abc", `{"name":"A"}`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "database is locked", decodeError(t, rr))
	})
}

func TestCarHandler_Delete(t *testing.T) {
	tests := []struct {
		name           string
		changes        int64
		mockErr        error
		expectedStatus int
		expectedBody   string
	}{
		{"Успех", 1, nil, http.StatusOK, `{"message":"Carro deletado","changes":1}`},
		{"Запись не найдена", 0, nil, http.StatusOK, `{"message":"Carro deletado","changes":0}`},
		{"Ошибка сервиса", 0, errors.New("disk I/O error"), http.StatusBadRequest, `{"error":"disk I/O error"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockCarService)
			svc.On("Delete", mock.Anything, "42").Return(tt.changes, tt.mockErr).Once()

			rr := doRequest(newRouter(svc), http.MethodDelete, "/api/cars/42", "")

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.JSONEq(t, tt.expectedBody, rr.Body.String())
			svc.AssertExpectations(t)
		})
	}
}
