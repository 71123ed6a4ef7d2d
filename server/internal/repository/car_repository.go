package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/maynagashev/colectorpro/models"
)

// CarRepository определяет методы для работы с таблицей cars.
type CarRepository interface {
	List(ctx context.Context) ([]models.Car, error)
	Create(ctx context.Context, car models.Car) error
	// Update обновляет изменяемые колонки записи id и возвращает число затронутых строк.
	Update(ctx context.Context, id string, car models.Car) (int64, error)
	// Delete удаляет запись id и возвращает число затронутых строк.
	Delete(ctx context.Context, id string) (int64, error)
}

// carRow - строка таблицы cars. Все колонки, кроме id и name, допускают NULL.
type carRow struct {
	ID        string         `db:"id"`
	Name      string         `db:"name"`
	Brand     sql.NullString `db:"brand"`
	Model     sql.NullString `db:"model"`
	Category  sql.NullString `db:"category"`
	ImageURL  sql.NullString `db:"image_url"`
	Images    sql.NullString `db:"images"`
	DateAdded sql.NullInt64  `db:"date_added"`
}

// sqlCarRepository реализует CarRepository поверх sqlx (SQLite или PostgreSQL).
type sqlCarRepository struct {
	db *sqlx.DB
}

// NewCarRepository создает новый экземпляр репозитория.
func NewCarRepository(db *sqlx.DB) CarRepository {
	return &sqlCarRepository{db: db}
}

// Алиасы нужны, чтобы имена колонок в результате не зависели от регистра в СУБД.
const listCarsQuery = `SELECT id, name, brand, model, category, imageUrl AS image_url, images, dateAdded AS date_added
	FROM cars ORDER BY dateAdded DESC`

// List возвращает все записи от новых к старым.
func (r *sqlCarRepository) List(ctx context.Context) ([]models.Car, error) {
	var rows []carRow
	if err := r.db.SelectContext(ctx, &rows, listCarsQuery); err != nil {
		log.Error().Err(err).Msg("[CarRepo] Ошибка получения списка")
		return nil, fmt.Errorf("ошибка выполнения запроса списка: %w", err)
	}

	cars := make([]models.Car, 0, len(rows))
	for _, row := range rows {
		cars = append(cars, row.toCar())
	}
	log.Debug().Int("count", len(cars)).Msg("[CarRepo] Получен список")
	return cars, nil
}

// Create вставляет одну строку.
func (r *sqlCarRepository) Create(ctx context.Context, car models.Car) error {
	imagesJSON, err := encodeImages(car.Images)
	if err != nil {
		return err
	}

	query := r.db.Rebind(`INSERT INTO cars (id, name, brand, model, category, imageUrl, images, dateAdded)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err = r.db.ExecContext(ctx, query,
		car.ID, nullString(car.Name), nullString(car.Brand), nullString(car.Model), nullString(string(car.Category)),
		nullString(car.ImageURL), imagesJSON, car.DateAdded)
	if err != nil {
		log.Error().Err(err).Str("id", car.ID).Msg("[CarRepo] Ошибка вставки")
		return fmt.Errorf("ошибка вставки записи: %w", err)
	}
	return nil
}

// Update обновляет все изменяемые колонки. id и dateAdded не меняются.
func (r *sqlCarRepository) Update(ctx context.Context, id string, car models.Car) (int64, error) {
	imagesJSON, err := encodeImages(car.Images)
	if err != nil {
		return 0, err
	}

	query := r.db.Rebind(`UPDATE cars SET name = ?, brand = ?, model = ?, category = ?, imageUrl = ?, images = ?
		WHERE id = ?`)
	res, err := r.db.ExecContext(ctx, query,
		nullString(car.Name), nullString(car.Brand), nullString(car.Model), nullString(string(car.Category)),
		nullString(car.ImageURL), imagesJSON, id)
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("[CarRepo] Ошибка обновления")
		return 0, fmt.Errorf("ошибка обновления записи: %w", err)
	}
	return rowsAffected(res), nil
}

// Delete удаляет строку по id.
func (r *sqlCarRepository) Delete(ctx context.Context, id string) (int64, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM cars WHERE id = ?`), id)
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("[CarRepo] Ошибка удаления")
		return 0, fmt.Errorf("ошибка удаления записи: %w", err)
	}
	return rowsAffected(res), nil
}

func (row carRow) toCar() models.Car {
	car := models.Car{
		ID:        row.ID,
		Name:      row.Name,
		Brand:     row.Brand.String,
		Model:     row.Model.String,
		Category:  models.Category(row.Category.String),
		ImageURL:  row.ImageURL.String,
		DateAdded: row.DateAdded.Int64,
	}

	if row.Images.Valid && row.Images.String != "" {
		if err := json.Unmarshal([]byte(row.Images.String), &car.Images); err != nil {
			log.Warn().Err(err).Str("id", row.ID).Msg("[CarRepo] Некорректный JSON в колонке images, используется обложка")
			car.Images = nil
		}
	}
	if len(car.Images) == 0 {
		// Строки, созданные до появления колонки images
		car.Images = []string{}
		if car.ImageURL != "" {
			car.Images = []string{car.ImageURL}
		}
	}
	return car
}

func encodeImages(images []string) (string, error) {
	if images == nil {
		images = []string{}
	}
	data, err := json.Marshal(images)
	if err != nil {
		return "", fmt.Errorf("ошибка кодирования списка фото: %w", err)
	}
	return string(data), nil
}

// nullString передает пустую строку как NULL, чтобы ограничения NOT NULL срабатывали в СУБД.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func rowsAffected(res sql.Result) int64 {
	n, err := res.RowsAffected()
	if err != nil {
		return 0
	}
	return n
}
