package local

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"go.etcd.io/bbolt"

	"github.com/maynagashev/colectorpro/models"
)

// sampleCars - записи, которыми заполняется пустая локальная база.
func sampleCars(now time.Time) []models.Car {
	ms := now.UnixMilli()
	return []models.Car{
		{
			ID:        "1",
			Name:      "Twin Mill",
			Brand:     "Hot Wheels",
			Model:     "Twin Mill III",
			Category:  models.CategoryFantasy,
			ImageURL:  "https://picsum.photos/400/300?random=1",
			Images:    []string{"https://picsum.photos/400/300?random=1"},
			DateAdded: ms - 10_000_000,
		},
		{
			ID:        "2",
			Name:      "Mustang GT",
			Brand:     "Ford",
			Model:     "Mustang GT",
			Category:  models.CategoryMuscle,
			ImageURL:  "https://picsum.photos/400/300?random=2",
			Images:    []string{"https://picsum.photos/400/300?random=2"},
			DateAdded: ms - 5_000_000,
		},
	}
}

// SeedIfEmpty добавляет примеры в пустую базу одной транзакцией и возвращает коллекцию.
// Непустая база не изменяется.
func (s *CarStore) SeedIfEmpty(ctx context.Context) ([]models.Car, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	seeded := false
	err := s.db.Update(func(tx *bbolt.Tx) error {
		if k, _ := tx.Bucket([]byte(bucketCars)).Cursor().First(); k != nil {
			return nil
		}
		for _, car := range sampleCars(s.now()) {
			data, err := json.Marshal(car)
			if err != nil {
				return err
			}
			if err = putTx(tx, car.ID, car.DateAdded, data); err != nil {
				return err
			}
		}
		seeded = true
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка заполнения примерами: %w", err)
	}
	if seeded {
		slog.Info("Локальная база заполнена примерами")
	}
	return s.List(ctx)
}
