// Package storage описывает общий контракт хранилищ коллекции.
// Оболочка приложения работает только с этим интерфейсом и не знает,
// где лежат данные: в локальной базе или на сервере.
package storage

import (
	"context"

	"github.com/maynagashev/colectorpro/models"
)

// Adapter - набор операций над коллекцией.
type Adapter interface {
	// List возвращает записи от новых к старым.
	List(ctx context.Context) ([]models.Car, error)
	Create(ctx context.Context, car models.Car) error
	// Update перезаписывает запись с car.ID. Отсутствие записи не ошибка.
	Update(ctx context.Context, car models.Car) error
	// Delete удаляет запись. Отсутствие записи не ошибка.
	Delete(ctx context.Context, id string) error
	// SeedIfEmpty заполняет пустое хранилище примерами (если умеет) и возвращает List.
	SeedIfEmpty(ctx context.Context) ([]models.Car, error)
}

// Unavailable - хранилище, которое не удалось открыть. Каждый вызов возвращает Err.
type Unavailable struct {
	Err error
}

var _ Adapter = Unavailable{}

func (u Unavailable) List(context.Context) ([]models.Car, error) { return nil, u.Err }

func (u Unavailable) Create(context.Context, models.Car) error { return u.Err }

func (u Unavailable) Update(context.Context, models.Car) error { return u.Err }

func (u Unavailable) Delete(context.Context, string) error { return u.Err }

func (u Unavailable) SeedIfEmpty(context.Context) ([]models.Car, error) { return nil, u.Err }
