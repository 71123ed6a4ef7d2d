package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/maynagashev/colectorpro/models"
	"github.com/maynagashev/colectorpro/server/internal/repository"
)

// CarService определяет интерфейс сервиса коллекции.
type CarService interface {
	List(ctx context.Context) ([]models.Car, error)
	Create(ctx context.Context, car models.Car) (models.Car, error)
	// Update не проверяет существование записи: неизвестный id не считается ошибкой.
	Update(ctx context.Context, id string, car models.Car) (models.Car, error)
	Delete(ctx context.Context, id string) (int64, error)
}

// ImageOffloader заменяет встроенное фото ссылкой на внешнее хранилище.
type ImageOffloader interface {
	Offload(ctx context.Context, image string) (string, error)
}

var _ CarService = (*carService)(nil) // Проверка соответствия интерфейсу

type carService struct {
	repo      repository.CarRepository
	offloader ImageOffloader // nil, если выгрузка фото отключена
}

// NewCarService создает новый экземпляр сервиса коллекции.
// offloader может быть nil.
func NewCarService(repo repository.CarRepository, offloader ImageOffloader) CarService {
	return &carService{repo: repo, offloader: offloader}
}

// List возвращает всю коллекцию от новых записей к старым.
func (s *carService) List(ctx context.Context) ([]models.Car, error) {
	return s.repo.List(ctx)
}

// Create сохраняет новую запись и возвращает ее в сохраненном виде.
func (s *carService) Create(ctx context.Context, car models.Car) (models.Car, error) {
	car, err := s.prepare(ctx, car)
	if err != nil {
		return models.Car{}, err
	}
	if err = s.repo.Create(ctx, car); err != nil {
		return models.Car{}, err
	}
	log.Info().Str("id", car.ID).Str("name", car.Name).Msg("[CarService] Запись добавлена")
	return car, nil
}

// Update перезаписывает изменяемые поля записи id.
func (s *carService) Update(ctx context.Context, id string, car models.Car) (models.Car, error) {
	car, err := s.prepare(ctx, car)
	if err != nil {
		return models.Car{}, err
	}
	n, err := s.repo.Update(ctx, id, car)
	if err != nil {
		return models.Car{}, err
	}
	if n == 0 {
		log.Warn().Str("id", id).Msg("[CarService] Обновление не затронуло ни одной записи")
	}
	car.ID = id
	return car, nil
}

// Delete удаляет запись и возвращает число удаленных строк.
func (s *carService) Delete(ctx context.Context, id string) (int64, error) {
	n, err := s.repo.Delete(ctx, id)
	if err != nil {
		return 0, err
	}
	log.Info().Str("id", id).Int64("changes", n).Msg("[CarService] Запись удалена")
	return n, nil
}

// prepare подставляет список фото по умолчанию и выгружает встроенные фото.
func (s *carService) prepare(ctx context.Context, car models.Car) (models.Car, error) {
	car = car.Clone()
	if car.Images == nil {
		car.Images = []string{}
		if car.ImageURL != "" {
			car.Images = []string{car.ImageURL}
		}
	}

	if s.offloader == nil || len(car.Images) == 0 {
		return car, nil
	}

	for i, img := range car.Images {
		url, err := s.offloader.Offload(ctx, img)
		if err != nil {
			return models.Car{}, fmt.Errorf("ошибка выгрузки фото %d: %w", i, err)
		}
		car.Images[i] = url
	}
	car.ImageURL = car.Images[0]
	return car, nil
}
