package local

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/maynagashev/colectorpro/client/internal/storage"
	"github.com/maynagashev/colectorpro/models"
)

// CarStore реализует storage.Adapter поверх бакетов cars и cars_by_date.
type CarStore struct {
	db  *bbolt.DB
	now func() time.Time
}

var _ storage.Adapter = (*CarStore)(nil)

// dateKey строит ключ индекса. Знаковый бит инвертируется, чтобы порядок байтов
// совпадал с порядком чисел, включая отрицательные.
func dateKey(dateAdded int64, id string) []byte {
	key := make([]byte, 8, 8+len(id))
	binary.BigEndian.PutUint64(key, uint64(dateAdded)^(1<<63)) //nolint:gosec // Побитовое преобразование
	return append(key, id...)
}

// List возвращает записи от новых к старым, обходя индекс в обратном порядке.
func (s *CarStore) List(ctx context.Context) ([]models.Car, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cars := []models.Car{}
	err := s.db.View(func(tx *bbolt.Tx) error {
		records := tx.Bucket([]byte(bucketCars))
		c := tx.Bucket([]byte(bucketByDate)).Cursor()
		for k, id := c.Last(); k != nil; k, id = c.Prev() {
			data := records.Get(id)
			if data == nil {
				continue
			}
			var car models.Car
			if err := json.Unmarshal(data, &car); err != nil {
				return fmt.Errorf("ошибка декодирования записи %s: %w", id, err)
			}
			cars = append(cars, car)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения коллекции: %w", err)
	}
	return cars, nil
}

// Create сохраняет запись. Существующая запись с тем же id перезаписывается.
func (s *CarStore) Create(ctx context.Context, car models.Car) error {
	return s.put(ctx, car)
}

// Update перезаписывает запись с car.ID, а при ее отсутствии создает.
func (s *CarStore) Update(ctx context.Context, car models.Car) error {
	return s.put(ctx, car)
}

func (s *CarStore) put(ctx context.Context, car models.Car) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(car)
	if err != nil {
		return fmt.Errorf("ошибка кодирования записи: %w", err)
	}

	err = s.db.Update(func(tx *bbolt.Tx) error {
		return putTx(tx, car.ID, car.DateAdded, data)
	})
	if err != nil {
		return fmt.Errorf("ошибка сохранения записи %s: %w", car.ID, err)
	}
	return nil
}

func putTx(tx *bbolt.Tx, id string, dateAdded int64, data []byte) error {
	records := tx.Bucket([]byte(bucketCars))
	index := tx.Bucket([]byte(bucketByDate))

	if old := records.Get([]byte(id)); old != nil {
		var prev models.Car
		if err := json.Unmarshal(old, &prev); err == nil {
			oldKey := dateKey(prev.DateAdded, id)
			if !bytes.Equal(oldKey, dateKey(dateAdded, id)) {
				if err = index.Delete(oldKey); err != nil {
					return err
				}
			}
		}
	}

	if err := records.Put([]byte(id), data); err != nil {
		return err
	}
	return index.Put(dateKey(dateAdded, id), []byte(id))
}

// Delete удаляет запись и ее ключ в индексе. Отсутствие записи не ошибка.
func (s *CarStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.db.Update(func(tx *bbolt.Tx) error {
		records := tx.Bucket([]byte(bucketCars))
		data := records.Get([]byte(id))
		if data == nil {
			return nil
		}
		var car models.Car
		if err := json.Unmarshal(data, &car); err == nil {
			if err = tx.Bucket([]byte(bucketByDate)).Delete(dateKey(car.DateAdded, id)); err != nil {
				return err
			}
		}
		return records.Delete([]byte(id))
	})
	if err != nil {
		return fmt.Errorf("ошибка удаления записи %s: %w", id, err)
	}
	return nil
}
