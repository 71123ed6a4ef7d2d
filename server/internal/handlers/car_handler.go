package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/maynagashev/colectorpro/models"
	"github.com/maynagashev/colectorpro/server/internal/metrics"
	"github.com/maynagashev/colectorpro/server/internal/services"
)

// Тексты ответов сервера. Клиенты на них не опираются.
const (
	msgCreated = "Carro salvo com sucesso"
	msgUpdated = "Carro atualizado com sucesso"
	msgDeleted = "Carro deletado"
)

// CarHandler обрабатывает HTTP-запросы к коллекции.
type CarHandler struct {
	carService services.CarService
}

// NewCarHandler создает новый экземпляр CarHandler.
func NewCarHandler(cs services.CarService) *CarHandler {
	return &CarHandler{carService: cs}
}

// List обрабатывает GET /api/cars.
func (h *CarHandler) List(w http.ResponseWriter, r *http.Request) {
	cars, err := h.carService.List(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("[CarHandler:List] Ошибка получения списка")
		writeError(w, err)
		return
	}
	if cars == nil {
		cars = []models.Car{}
	}
	writeJSON(w, models.ListResponse{Data: cars})
}

// Create обрабатывает POST /api/cars.
func (h *CarHandler) Create(w http.ResponseWriter, r *http.Request) {
	car, ok := decodeCar(w, r, "Create")
	if !ok {
		return
	}

	saved, err := h.carService.Create(r.Context(), car)
	if err != nil {
		log.Error().Err(err).Str("id", car.ID).Msg("[CarHandler:Create] Ошибка сохранения")
		writeError(w, err)
		return
	}
	metrics.RecordCarMutation(metrics.OpCreate)
	writeJSON(w, models.MutationResponse{Message: msgCreated, Data: &saved})
}

// Update обрабатывает PUT /api/cars/{id}.
// Неизвестный id не считается ошибкой.
func (h *CarHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	car, ok := decodeCar(w, r, "Update")
	if !ok {
		return
	}

	saved, err := h.carService.Update(r.Context(), id, car)
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("[CarHandler:Update] Ошибка обновления")
		writeError(w, err)
		return
	}
	metrics.RecordCarMutation(metrics.OpUpdate)
	writeJSON(w, models.MutationResponse{Message: msgUpdated, Data: &saved})
}

// Delete обрабатывает DELETE /api/cars/{id}.
func (h *CarHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	changes, err := h.carService.Delete(r.Context(), id)
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("[CarHandler:Delete] Ошибка удаления")
		writeError(w, err)
		return
	}
	metrics.RecordCarMutation(metrics.OpDelete)
	writeJSON(w, models.MutationResponse{Message: msgDeleted, Changes: &changes})
}

func decodeCar(w http.ResponseWriter, r *http.Request, method string) (models.Car, bool) {
	var car models.Car
	if err := json.NewDecoder(r.Body).Decode(&car); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			log.Warn().Int64("limit", maxErr.Limit).Msg("[CarHandler:" + method + "] Превышен размер тела запроса")
		} else {
			log.Warn().Err(err).Msg("[CarHandler:" + method + "] Неверный формат запроса")
		}
		writeError(w, err)
		return models.Car{}, false
	}
	return car, true
}

// writeError отвечает 400 с телом {"error": "..."}; этот код используется для всех ошибок,
// включая ошибки БД.
func writeError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	if encErr := json.NewEncoder(w).Encode(models.ErrorResponse{Error: err.Error()}); encErr != nil {
		log.Error().Err(encErr).Msg("Ошибка кодирования ответа с ошибкой")
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Ошибка кодирования ответа")
	}
}
