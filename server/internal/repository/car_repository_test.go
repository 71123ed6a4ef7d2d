package repository_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maynagashev/colectorpro/models"
	"github.com/maynagashev/colectorpro/server/internal/repository"
)

func newMigratedRepo(t *testing.T) (repository.CarRepository, *sqlx.DB) {
	t.Helper()
	db := openTestDB(t)
	require.NoError(t, repository.Migrate(context.Background(), db))
	return repository.NewCarRepository(db), db
}

func sampleCar(id string, dateAdded int64) models.Car {
	return models.Car{
		ID:        id,
		Name:      "Car " + id,
		Brand:     "Hot Wheels",
		Model:     "M-" + id,
		Category:  models.CategoryRace,
		ImageURL:  "data:image/png;base64,AAA" + id,
		Images:    []string{"data:image/png;base64,AAA" + id, "data:image/png;base64,BBB" + id},
		DateAdded: dateAdded,
	}
}

func TestCarRepository_CreateAndList(t *testing.T) {
	ctx := context.Background()
	repo, _ := newMigratedRepo(t)

	require.NoError(t, repo.Create(ctx, sampleCar("a", 100)))
	require.NoError(t, repo.Create(ctx, sampleCar("b", 300)))
	require.NoError(t, repo.Create(ctx, sampleCar("c", 200)))

	cars, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, cars, 3)

	// От новых к старым
	assert.Equal(t, "b", cars[0].ID)
	assert.Equal(t, "c", cars[1].ID)
	assert.Equal(t, "a", cars[2].ID)
	assert.Equal(t, sampleCar("b", 300), cars[0])
}

func TestCarRepository_ListEmpty(t *testing.T) {
	repo, _ := newMigratedRepo(t)

	cars, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, cars)
	assert.Empty(t, cars)
}

func TestCarRepository_OptionalColumns(t *testing.T) {
	ctx := context.Background()
	repo, db := newMigratedRepo(t)

	car := models.Car{ID: "x", Name: "Bare", Category: models.CategoryOther, DateAdded: 1}
	require.NoError(t, repo.Create(ctx, car))

	// Пустые строки хранятся как NULL
	var brand *string
	require.NoError(t, db.Get(&brand, `SELECT brand FROM cars WHERE id = 'x'`))
	assert.Nil(t, brand)

	cars, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, cars, 1)
	assert.Empty(t, cars[0].Brand)
	assert.Empty(t, cars[0].Images)
}

func TestCarRepository_Update(t *testing.T) {
	ctx := context.Background()
	repo, _ := newMigratedRepo(t)
	require.NoError(t, repo.Create(ctx, sampleCar("a", 100)))

	t.Run("Существующая запись", func(t *testing.T) {
		changed := sampleCar("a", 999)
		changed.Name = "Renamed"
		changed.Images = []string{"http://img/new.png"}
		changed.ImageURL = "http://img/new.png"

		n, err := repo.Update(ctx, "a", changed)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		cars, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, cars, 1)
		assert.Equal(t, "Renamed", cars[0].Name)
		assert.Equal(t, []string{"http://img/new.png"}, cars[0].Images)
		// dateAdded не меняется при обновлении
		assert.Equal(t, int64(100), cars[0].DateAdded)
	})

	t.Run("Неизвестный id", func(t *testing.T) {
		n, err := repo.Update(ctx, "missing", sampleCar("missing", 1))
		require.NoError(t, err)
		assert.Equal(t, int64(0), n)
	})
}

func TestCarRepository_NameRequired(t *testing.T) {
	ctx := context.Background()
	repo, _ := newMigratedRepo(t)

	t.Run("Вставка без имени", func(t *testing.T) {
		car := sampleCar("a", 100)
		car.Name = ""

		err := repo.Create(ctx, car)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ошибка вставки записи")

		cars, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, cars)
	})

	t.Run("Обновление без имени", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, sampleCar("b", 100)))
		car := sampleCar("b", 100)
		car.Name = ""

		_, err := repo.Update(ctx, "b", car)
		require.Error(t, err)

		cars, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, cars, 1)
		assert.Equal(t, "Car b", cars[0].Name)
	})
}

func TestCarRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo, _ := newMigratedRepo(t)
	require.NoError(t, repo.Create(ctx, sampleCar("a", 100)))

	n, err := repo.Delete(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = repo.Delete(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	cars, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, cars)
}

func TestCarRepository_DuplicateID(t *testing.T) {
	ctx := context.Background()
	repo, _ := newMigratedRepo(t)
	require.NoError(t, repo.Create(ctx, sampleCar("a", 100)))

	err := repo.Create(ctx, sampleCar("a", 200))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ошибка вставки записи")
}

// Вспомогательная функция для создания мока БД и репозитория.
func setupCarRepoMock(t *testing.T) (repository.CarRepository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return repository.NewCarRepository(sqlx.NewDb(db, "sqlmock")), mock
}

func TestCarRepository_Errors(t *testing.T) {
	ctx := context.Background()
	dbErr := errors.New("db connection error")

	t.Run("Ошибка списка", func(t *testing.T) {
		repo, mock := setupCarRepoMock(t)
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name`)).WillReturnError(dbErr)

		cars, err := repo.List(ctx)
		require.Error(t, err)
		assert.Nil(t, cars)
		assert.ErrorIs(t, err, dbErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Ошибка вставки", func(t *testing.T) {
		repo, mock := setupCarRepoMock(t)
		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO cars`)).WillReturnError(dbErr)

		err := repo.Create(ctx, sampleCar("a", 1))
		require.ErrorIs(t, err, dbErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Ошибка обновления", func(t *testing.T) {
		repo, mock := setupCarRepoMock(t)
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE cars SET`)).WillReturnError(dbErr)

		n, err := repo.Update(ctx, "a", sampleCar("a", 1))
		require.ErrorIs(t, err, dbErr)
		assert.Zero(t, n)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Ошибка удаления", func(t *testing.T) {
		repo, mock := setupCarRepoMock(t)
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM cars WHERE id = ?`)).
			WithArgs("a").
			WillReturnError(dbErr)

		n, err := repo.Delete(ctx, "a")
		require.ErrorIs(t, err, dbErr)
		assert.Zero(t, n)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Некорректный JSON в images", func(t *testing.T) {
		repo, mock := setupCarRepoMock(t)
		rows := sqlmock.NewRows([]string{"id", "name", "brand", "model", "category", "image_url", "images", "date_added"}).
			AddRow("a", "A", nil, nil, "Race", "http://img/a.png", "{broken", int64(5))
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name`)).WillReturnRows(rows)

		cars, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, cars, 1)
		assert.Equal(t, []string{"http://img/a.png"}, cars[0].Images)
	})
}
